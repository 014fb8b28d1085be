// Package phase finds the newest day marker in the game-master's posts and
// turns it into a phase transition.
package phase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/KirkDiggler/mafiabot/internal/models"
	"github.com/KirkDiggler/mafiabot/internal/repositories/thread"
)

var (
	dayStartRE = regexp.MustCompile(models.DayStartPattern)
	dayEndRE   = regexp.MustCompile(models.DayEndPattern)
)

// Detector scans the game-master's posts for phase markers
type Detector struct {
	reader       thread.Reader
	gameMaster   string
	gameMasterID models.PlayerID
	level        int
	logger       *slog.Logger
}

// New creates a new phase detector
func New(cfg *Config) (*Detector, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Reader == nil {
		return nil, ErrNilReader
	}
	if cfg.GameMaster == "" {
		return nil, ErrEmptyGameMaster
	}

	level := cfg.MarkerHeadingLevel
	if level == 0 {
		level = models.DefaultMarkerHeadingLevel
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Detector{
		reader:       cfg.Reader,
		gameMaster:   cfg.GameMaster,
		gameMasterID: models.NewPlayerID(cfg.GameMaster),
		level:        level,
		logger:       logger,
	}, nil
}

// Detect walks the game-master's posts newest first and stops at the first
// post holding a marker. No marker at all means night.
func (d *Detector) Detect(ctx context.Context) (*Detection, error) {
	detection := &Detection{Phase: models.PhaseNight}

	err := thread.WalkUserPostsBackward(ctx, d.reader, d.gameMaster, func(post models.Post) bool {
		if post.Author != d.gameMasterID {
			return true
		}

		marker, ok := d.MarkerIn(post)
		if !ok {
			return true
		}

		detection.Marker = &marker
		if marker.Kind == MarkerDayStart {
			detection.Phase = models.PhaseDay
			detection.Roster = RosterOf(post)
		}
		return false
	})
	if err != nil {
		return nil, fmt.Errorf("failed to detect phase: %w", err)
	}

	if detection.Marker == nil {
		d.logger.Info("no phase marker found, assuming night")
	} else {
		d.logger.Debug("phase marker found",
			"kind", detection.Marker.Kind,
			"day", detection.Marker.DayNumber,
			"post_id", detection.Marker.PostID)
	}

	return detection, nil
}

// MarkerIn returns the marker held by a post. An end marker wins over a start
// marker in the same post.
func (d *Detector) MarkerIn(post models.Post) (Marker, bool) {
	var start *Marker
	for _, text := range post.HeadingsAt(d.level) {
		if day, ok := matchDay(dayEndRE, text); ok {
			return Marker{Kind: MarkerDayEnd, DayNumber: day, PostID: post.ID}, true
		}
		if start != nil {
			continue
		}
		if day, ok := matchDay(dayStartRE, text); ok {
			start = &Marker{Kind: MarkerDayStart, DayNumber: day, PostID: post.ID}
		}
	}

	if start == nil {
		return Marker{}, false
	}
	return *start, true
}

// RosterOf reads the alive players from the first ordered list of a post.
// A player listed twice is kept once, at their first position.
func RosterOf(post models.Post) []models.PlayerID {
	var roster []models.PlayerID
	seen := make(map[models.PlayerID]bool)
	for _, item := range post.FirstList() {
		id := models.NewPlayerID(item)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		roster = append(roster, id)
	}
	return roster
}

func matchDay(re *regexp.Regexp, text string) (int, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return day, true
}
