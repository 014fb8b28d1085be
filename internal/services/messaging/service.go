// Package messaging renders tally posts. The first line of every body is the
// count marker the bot later looks for in its own posts.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// service implements the Service interface
type service struct {
	headingPrefix string
}

// NewService creates a new messaging service
func NewService(cfg *Config) (*service, error) {
	level := models.DefaultMarkerHeadingLevel
	if cfg != nil && cfg.MarkerHeadingLevel != 0 {
		level = cfg.MarkerHeadingLevel
	}
	if level < 1 || level > 6 {
		return nil, fmt.Errorf("invalid marker heading level %d", level)
	}

	return &service{
		headingPrefix: strings.Repeat("#", level) + " ",
	}, nil
}

// RenderTally returns the body of an interim tally post
func (s *service) RenderTally(ctx context.Context, input *RenderTallyInput) (*RenderOutput, error) {
	if input == nil || input.Tally == nil {
		return nil, errors.New("input and tally cannot be nil")
	}

	var b strings.Builder
	b.WriteString(s.headingPrefix + models.CountMarker + "\n\n")
	writeEntries(&b, input.Tally)
	fmt.Fprintf(&b, "\nVivos: %d. Mayoría absoluta: %d votos.\n", input.AliveCount, input.MajorityThreshold)
	fmt.Fprintf(&b, "_Recuento hasta el mensaje #%d._\n", input.AsOfPostID)

	return &RenderOutput{Body: b.String()}, nil
}

// RenderLynch returns the body of a final tally announcing a lynch
func (s *service) RenderLynch(ctx context.Context, input *RenderLynchInput) (*RenderOutput, error) {
	if input == nil || input.Tally == nil {
		return nil, errors.New("input and tally cannot be nil")
	}
	if input.VictimName == "" {
		return nil, errors.New("victim name cannot be empty")
	}

	var b strings.Builder
	b.WriteString(s.headingPrefix + models.FinalCountMarker + "\n\n")
	writeEntries(&b, input.Tally)
	fmt.Fprintf(&b, "\n**%s** ha sido linchado con el voto del mensaje #%d.\n", input.VictimName, input.AsOfPostID)
	b.WriteString("No se aceptan más votos hasta el próximo día.\n")

	return &RenderOutput{Body: b.String()}, nil
}

func writeEntries(b *strings.Builder, tally *models.Tally) {
	if len(tally.Entries) == 0 {
		b.WriteString("Sin votos.\n")
		return
	}
	for _, entry := range tally.Entries {
		fmt.Fprintf(b, "**%s** (%d): %s\n", entry.TargetName, entry.Count(), strings.Join(entry.Voters, ", "))
	}
}
