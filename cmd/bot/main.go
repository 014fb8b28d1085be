package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/mafiabot/internal/common/clock"
	"github.com/KirkDiggler/mafiabot/internal/common/uuid"
	"github.com/KirkDiggler/mafiabot/internal/config"
	"github.com/KirkDiggler/mafiabot/internal/handlers/discord"
	"github.com/KirkDiggler/mafiabot/internal/handlers/forum"
	"github.com/KirkDiggler/mafiabot/internal/models"
	"github.com/KirkDiggler/mafiabot/internal/repositories/rights"
	"github.com/KirkDiggler/mafiabot/internal/repositories/snapshot"
	"github.com/KirkDiggler/mafiabot/internal/repositories/thread"
	"github.com/KirkDiggler/mafiabot/internal/services/game"
	"github.com/KirkDiggler/mafiabot/internal/services/messaging"
	"github.com/KirkDiggler/mafiabot/internal/services/phase"
	"github.com/KirkDiggler/mafiabot/internal/services/tally"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	once := flag.Bool("once", false, "run a single cycle and exit")
	dryRun := flag.Bool("dry-run", false, "log announcements instead of posting them")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *once, *dryRun, logger); err != nil {
		logger.Error("bot stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, once, dryRun bool, logger *slog.Logger) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(dryRun); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize repositories
	reader, err := thread.NewHTTP(&thread.Config{
		ThreadURL: cfg.ThreadURL,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create thread reader: %w", err)
	}

	table, err := rights.NewCSV().LoadRightsTable(ctx, &rights.LoadRightsTableInput{Path: cfg.RightsFile})
	if err != nil {
		return err
	}
	logger.Info("rights table loaded", "players", len(table))

	var snapshotRepo snapshot.Repository
	if cfg.Secrets.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Secrets.RedisAddr,
			Password: cfg.Secrets.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		repo, err := snapshot.NewRedis(&snapshot.Config{
			RedisClient:  redisClient,
			HistoryLimit: cfg.SnapshotHistory,
		})
		if err != nil {
			return fmt.Errorf("failed to create snapshot repository: %w", err)
		}
		snapshotRepo = repo
	}

	// Initialize services
	evaluator, err := tally.New(&tally.Config{
		Rights:           table,
		GameMaster:       models.NewPlayerID(cfg.GameMaster),
		PostPushInterval: cfg.PostPushInterval,
		Logger:           logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create vote evaluator: %w", err)
	}

	detector, err := phase.New(&phase.Config{
		Reader:             reader,
		GameMaster:         cfg.GameMaster,
		MarkerHeadingLevel: cfg.MarkerHeadingLevel,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create phase detector: %w", err)
	}

	messagingSvc, err := messaging.NewService(&messaging.Config{
		MarkerHeadingLevel: cfg.MarkerHeadingLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to create messaging service: %w", err)
	}

	publisher, err := newPublisher(cfg, dryRun, messagingSvc, logger)
	if err != nil {
		return err
	}

	if cfg.Secrets.DiscordToken != "" {
		bot, err := discord.New(&discord.Config{
			Token:         cfg.Secrets.DiscordToken,
			ApplicationID: cfg.Secrets.DiscordApplicationID,
			GuildID:       cfg.Secrets.DiscordGuildID,
			SnapshotRepo:  snapshotRepo,
			ThreadID:      cfg.ThreadID,
			Logger:        logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create Discord bot: %w", err)
		}
		if err := bot.Start(); err != nil {
			return fmt.Errorf("failed to start Discord bot: %w", err)
		}
		defer func() {
			if err := bot.Stop(); err != nil {
				logger.Warn("error stopping Discord bot", "error", err)
			}
		}()

		publisher, err = discord.NewMirror(&discord.MirrorConfig{
			Next:      publisher,
			Send:      bot.Sender(),
			ChannelID: cfg.Secrets.DiscordChannelID,
			Messaging: messagingSvc,
			Logger:    logger,
		})
		if err != nil {
			return fmt.Errorf("failed to create Discord mirror: %w", err)
		}
	}

	var gameSvc game.Service
	gameSvc, err = game.New(&game.Config{
		Reader:              reader,
		Detector:            detector,
		Evaluator:           evaluator,
		Publisher:           publisher,
		SnapshotRepo:        snapshotRepo,
		Clock:               clock.New(),
		UUIDGenerator:       uuid.New(),
		BotUser:             cfg.BotUser,
		ThreadID:            cfg.ThreadID,
		PageSize:            cfg.PageSize,
		CommandHeadingLevel: cfg.CommandHeadingLevel,
		MarkerHeadingLevel:  cfg.MarkerHeadingLevel,
		Logger:              logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create game service: %w", err)
	}

	logger.Info("bot running",
		"thread_id", cfg.ThreadID,
		"game_master", cfg.GameMaster,
		"poll_interval", cfg.PollInterval,
		"dry_run", dryRun)

	return poll(ctx, gameSvc, cfg.PollInterval, once, logger)
}

func newPublisher(cfg *config.Config, dryRun bool, svc messaging.Service, logger *slog.Logger) (forum.Publisher, error) {
	if dryRun {
		publisher, err := forum.NewDryRun(svc, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create dry-run publisher: %w", err)
		}
		return publisher, nil
	}

	publisher, err := forum.NewHTTP(&forum.Config{
		LoginURL:  cfg.LoginURL,
		ReplyURL:  cfg.ReplyURL,
		Username:  cfg.BotUser,
		Password:  cfg.Secrets.BotPassword,
		Messaging: svc,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create forum publisher: %w", err)
	}
	return publisher, nil
}

// poll runs cycles until the context ends. The state of one cycle seeds the
// next; a failed fetch only skips the cycle, a failed publish stops the bot.
func poll(ctx context.Context, svc game.Service, interval time.Duration, once bool, logger *slog.Logger) error {
	var state models.GameState

	for {
		out, err := svc.RunCycle(ctx, &game.RunCycleInput{State: state})
		switch {
		case err == nil:
			state = out.State
		case errors.Is(err, game.ErrPublishFailed):
			return err
		case ctx.Err() != nil:
			return nil
		default:
			logger.Error("cycle failed", "error", err)
		}

		if once {
			return err
		}

		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case <-time.After(interval):
		}
	}
}
