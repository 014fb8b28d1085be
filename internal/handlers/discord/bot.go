// Package discord mirrors the bot's announcements to a Discord channel and
// answers the /estado slash command from the snapshot store.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/mafiabot/internal/repositories/snapshot"
)

// Config holds the configuration for the Discord side of the bot
type Config struct {
	// Token is the Discord bot token
	Token string

	// ApplicationID owns the slash commands; defaults to the session user
	ApplicationID string

	// GuildID scopes commands to one server when set
	GuildID string

	// SnapshotRepo backs the /estado command; without it no command is registered
	SnapshotRepo snapshot.Repository

	// ThreadID is the game thread whose snapshots are shown
	ThreadID int

	// Logger is optional
	Logger *slog.Logger
}

// Bot owns the Discord session used for mirroring and slash commands
type Bot struct {
	session    *discordgo.Session
	config     *Config
	commands   map[string]Command
	registered []*discordgo.ApplicationCommand
	logger     *slog.Logger
}

// New creates a Discord bot; the connection opens in Start
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bot := &Bot{
		session:  session,
		config:   cfg,
		commands: make(map[string]Command),
		logger:   logger,
	}
	if cfg.SnapshotRepo != nil {
		status := NewStatusCommand(cfg.SnapshotRepo, cfg.ThreadID, logger)
		bot.commands[commandStatus] = status
	}

	session.AddHandler(bot.dispatch)

	return bot, nil
}

// Sender returns a SendFunc posting through the bot's session
func (b *Bot) Sender() SendFunc {
	return func(_ context.Context, channelID, content string) error {
		_, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Content: content,
		})
		return err
	}
}

// Start opens the connection and replaces the application's commands with ours
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	definitions := make([]*discordgo.ApplicationCommand, 0, len(b.commands))
	for _, cmd := range b.commands {
		definitions = append(definitions, cmd.Definition())
	}

	registered, err := b.session.ApplicationCommandBulkOverwrite(b.appID(), b.config.GuildID, definitions)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}
	b.registered = registered

	b.logger.Info("discord bot running", "commands", len(registered), "guild", b.config.GuildID)
	return nil
}

// Stop removes the registered commands and closes the connection
func (b *Bot) Stop() error {
	for _, cmd := range b.registered {
		if err := b.session.ApplicationCommandDelete(b.appID(), b.config.GuildID, cmd.ID); err != nil {
			b.logger.Warn("failed to delete command", "command", cmd.Name, "error", err)
		}
	}
	b.registered = nil

	return b.session.Close()
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	return b.session.State.User.ID
}

func (b *Bot) dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	cmd, ok := b.commands[name]
	if !ok {
		return
	}
	if err := cmd.Handle(s, i); err != nil {
		b.logger.Error("failed to handle command", "command", name, "error", err)
	}
}
