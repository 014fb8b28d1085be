package forum

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/mafiabot/internal/services/messaging"
)

// dryRunPublisher renders posts and logs them instead of replying
type dryRunPublisher struct {
	messaging messaging.Service
	logger    *slog.Logger
}

// Ensure interface compliance at compile time
var _ Publisher = (*dryRunPublisher)(nil)

// NewDryRun creates a publisher that only logs what it would post
func NewDryRun(svc messaging.Service, logger *slog.Logger) (*dryRunPublisher, error) {
	if svc == nil {
		return nil, errors.New("messaging service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &dryRunPublisher{messaging: svc, logger: logger}, nil
}

// PublishTally logs the interim tally
func (p *dryRunPublisher) PublishTally(ctx context.Context, input *PublishTallyInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	out, err := p.messaging.RenderTally(ctx, &messaging.RenderTallyInput{
		Tally:             input.Tally,
		AliveCount:        input.AliveCount,
		MajorityThreshold: input.MajorityThreshold,
		AsOfPostID:        input.AsOfPostID,
	})
	if err != nil {
		return fmt.Errorf("failed to render tally: %w", err)
	}

	p.logger.Info("dry run: tally", "thread_id", input.ThreadID, "body", out.Body)
	return nil
}

// PublishLynch logs the lynch announcement
func (p *dryRunPublisher) PublishLynch(ctx context.Context, input *PublishLynchInput) error {
	if input == nil {
		return errors.New("input cannot be nil")
	}

	out, err := p.messaging.RenderLynch(ctx, &messaging.RenderLynchInput{
		Tally:      input.Tally,
		VictimName: input.VictimName,
		AsOfPostID: input.AsOfPostID,
	})
	if err != nil {
		return fmt.Errorf("failed to render lynch: %w", err)
	}

	p.logger.Info("dry run: lynch", "thread_id", input.ThreadID, "body", out.Body)
	return nil
}
