package discord

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/mafiabot/internal/repositories/snapshot"
)

const (
	commandStatus = "estado"

	subcommandTally   = "recuento"
	subcommandHistory = "historial"

	historyLimit = 5
)

// StatusCommand answers /estado from the snapshot store
type StatusCommand struct {
	snapshotRepo snapshot.Repository
	threadID     int
	logger       *slog.Logger
}

// NewStatusCommand creates a new /estado command handler
func NewStatusCommand(repo snapshot.Repository, threadID int, logger *slog.Logger) *StatusCommand {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusCommand{
		snapshotRepo: repo,
		threadID:     threadID,
		logger:       logger,
	}
}

// Definition describes /estado and its subcommands
func (c *StatusCommand) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandStatus,
		Description: "Estado de la partida de mafia",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        subcommandTally,
				Description: "Último recuento de votos",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        subcommandHistory,
				Description: "Últimos ciclos del bot",
			},
		},
	}
}

// Handle answers an /estado invocation
func (c *StatusCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	subcommand := subcommandOf(i.ApplicationCommandData(), subcommandTally)

	embed, err := c.Embed(context.Background(), subcommand)
	if err != nil {
		c.logger.Warn("failed to build status", "subcommand", subcommand, "error", err)
		return respondError(s, i, "No hay datos de la partida todavía.")
	}

	return respond(s, i, embed, false)
}

// Embed builds the response for a subcommand from the snapshot store
func (c *StatusCommand) Embed(ctx context.Context, subcommand string) (*discordgo.MessageEmbed, error) {
	switch subcommand {
	case subcommandTally:
		snap, err := c.snapshotRepo.GetSnapshot(ctx, &snapshot.GetSnapshotInput{ThreadID: c.threadID})
		if err != nil {
			return nil, err
		}
		return renderSnapshot(snap), nil
	case subcommandHistory:
		out, err := c.snapshotRepo.GetHistory(ctx, &snapshot.GetHistoryInput{
			ThreadID: c.threadID,
			Limit:    historyLimit,
		})
		if err != nil {
			return nil, err
		}
		if len(out.Snapshots) == 0 {
			return nil, snapshot.ErrSnapshotNotFound
		}
		return renderHistory(out.Snapshots), nil
	default:
		return nil, errors.New("unknown subcommand " + subcommand)
	}
}
