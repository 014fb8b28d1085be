package rights

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// Column names of the rights table header
const (
	ColumnPlayer              = "player"
	ColumnAllowedVotes        = "allowed_votes"
	ColumnCanBeVoted          = "can_be_voted"
	ColumnModToLynch          = "mod_to_lynch"
	ColumnAllowedVoteRequests = "allowed_vote_requests"
)

var requiredColumns = []string{
	ColumnPlayer,
	ColumnAllowedVotes,
	ColumnCanBeVoted,
	ColumnModToLynch,
	ColumnAllowedVoteRequests,
}

// ErrEmptyTable is returned when the file has a header but no players
var ErrEmptyTable = errors.New("rights table has no players")

// csvRepository implements the Repository interface over a CSV file
type csvRepository struct{}

// Ensure interface compliance at compile time
var _ Repository = (*csvRepository)(nil)

// NewCSV creates a new CSV-backed rights repository
func NewCSV() *csvRepository {
	return &csvRepository{}
}

// LoadRightsTable reads and validates the rights table at input.Path
func (r *csvRepository) LoadRightsTable(ctx context.Context, input *LoadRightsTableInput) (models.RightsTable, error) {
	if input == nil || input.Path == "" {
		return nil, errors.New("input and path cannot be empty")
	}

	f, err := os.Open(input.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rights table: %w", err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load rights table %s: %w", input.Path, err)
	}

	return table, nil
}

// Parse reads a rights table. Every row must carry every required column;
// a malformed row fails the whole table rather than a later lookup.
func Parse(r io.Reader) (models.RightsTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("rights table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	table := make(models.RightsTable)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		id, entry, err := parseRow(record, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, exists := table[id]; exists {
			return nil, fmt.Errorf("line %d: duplicate player %q", line, entry.DisplayName)
		}
		table[id] = entry
	}

	if len(table) == 0 {
		return nil, ErrEmptyTable
	}

	return table, nil
}

func parseRow(record []string, columns map[string]int) (models.PlayerID, models.RightsEntry, error) {
	field := func(name string) (string, error) {
		i := columns[name]
		if i >= len(record) || strings.TrimSpace(record[i]) == "" {
			return "", fmt.Errorf("missing %s", name)
		}
		return strings.TrimSpace(record[i]), nil
	}
	intField := func(name string) (int, error) {
		value, err := field(name)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q", name, value)
		}
		return n, nil
	}

	var entry models.RightsEntry
	var err error

	if entry.DisplayName, err = field(ColumnPlayer); err != nil {
		return "", entry, err
	}
	if entry.AllowedVotes, err = intField(ColumnAllowedVotes); err != nil {
		return "", entry, err
	}
	if entry.AllowedVotes < 0 {
		return "", entry, fmt.Errorf("negative %s", ColumnAllowedVotes)
	}
	if entry.ModToLynch, err = intField(ColumnModToLynch); err != nil {
		return "", entry, err
	}
	if entry.AllowedVoteRequests, err = intField(ColumnAllowedVoteRequests); err != nil {
		return "", entry, err
	}

	canBeVoted, err := field(ColumnCanBeVoted)
	if err != nil {
		return "", entry, err
	}
	if entry.CanBeVoted, err = strconv.ParseBool(canBeVoted); err != nil {
		return "", entry, fmt.Errorf("invalid %s %q", ColumnCanBeVoted, canBeVoted)
	}

	return models.NewPlayerID(entry.DisplayName), entry, nil
}
