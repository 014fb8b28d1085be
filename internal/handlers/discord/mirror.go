package discord

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KirkDiggler/mafiabot/internal/handlers/forum"
	"github.com/KirkDiggler/mafiabot/internal/services/messaging"
)

// SendFunc posts a plain message to a Discord channel
type SendFunc func(ctx context.Context, channelID, content string) error

// MirrorConfig holds configuration for the Discord mirror
type MirrorConfig struct {
	// Next is the publisher that posts to the forum
	Next forum.Publisher

	// Send posts to Discord, usually Bot.Sender()
	Send SendFunc

	// ChannelID is the Discord channel receiving copies
	ChannelID string

	// Messaging renders the copies
	Messaging messaging.Service

	// Logger is optional
	Logger *slog.Logger
}

// Mirror is a forum.Publisher that copies every successful announcement to a
// Discord channel. Discord failures are logged and never fail the publish.
type Mirror struct {
	next      forum.Publisher
	send      SendFunc
	channelID string
	messaging messaging.Service
	logger    *slog.Logger
}

// Ensure interface compliance at compile time
var _ forum.Publisher = (*Mirror)(nil)

// NewMirror creates a new Discord mirror
func NewMirror(cfg *MirrorConfig) (*Mirror, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Next == nil {
		return nil, errors.New("next publisher cannot be nil")
	}
	if cfg.Send == nil {
		return nil, errors.New("send function cannot be nil")
	}
	if cfg.ChannelID == "" {
		return nil, errors.New("channel ID cannot be empty")
	}
	if cfg.Messaging == nil {
		return nil, errors.New("messaging service cannot be nil")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Mirror{
		next:      cfg.Next,
		send:      cfg.Send,
		channelID: cfg.ChannelID,
		messaging: cfg.Messaging,
		logger:    logger,
	}, nil
}

// PublishTally publishes to the forum, then copies the tally to Discord
func (m *Mirror) PublishTally(ctx context.Context, input *forum.PublishTallyInput) error {
	if err := m.next.PublishTally(ctx, input); err != nil {
		return err
	}

	out, err := m.messaging.RenderTally(ctx, &messaging.RenderTallyInput{
		Tally:             input.Tally,
		AliveCount:        input.AliveCount,
		MajorityThreshold: input.MajorityThreshold,
		AsOfPostID:        input.AsOfPostID,
	})
	if err != nil {
		m.logger.Warn("failed to render discord copy", "error", err)
		return nil
	}

	m.copy(ctx, out.Body)
	return nil
}

// PublishLynch publishes to the forum, then copies the announcement to Discord
func (m *Mirror) PublishLynch(ctx context.Context, input *forum.PublishLynchInput) error {
	if err := m.next.PublishLynch(ctx, input); err != nil {
		return err
	}

	out, err := m.messaging.RenderLynch(ctx, &messaging.RenderLynchInput{
		Tally:      input.Tally,
		VictimName: input.VictimName,
		AsOfPostID: input.AsOfPostID,
	})
	if err != nil {
		m.logger.Warn("failed to render discord copy", "error", err)
		return nil
	}

	m.copy(ctx, out.Body)
	return nil
}

func (m *Mirror) copy(ctx context.Context, body string) {
	if err := m.send(ctx, m.channelID, body); err != nil {
		m.logger.Warn("failed to mirror to discord", "channel_id", m.channelID, "error", err)
	}
}
