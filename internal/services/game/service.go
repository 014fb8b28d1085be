// Package game drives one polling cycle: it observes the thread, rebuilds the
// game state from scratch and publishes whatever announcement is due.
package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/mafiabot/internal/common/clock"
	"github.com/KirkDiggler/mafiabot/internal/common/uuid"
	"github.com/KirkDiggler/mafiabot/internal/handlers/forum"
	"github.com/KirkDiggler/mafiabot/internal/models"
	"github.com/KirkDiggler/mafiabot/internal/repositories/snapshot"
	"github.com/KirkDiggler/mafiabot/internal/repositories/thread"
	"github.com/KirkDiggler/mafiabot/internal/services/phase"
	"github.com/KirkDiggler/mafiabot/internal/services/tally"
)

// service implements the Service interface
type service struct {
	reader        thread.Reader
	detector      *phase.Detector
	evaluator     *tally.Evaluator
	engine        *Engine
	publisher     forum.Publisher
	snapshotRepo  snapshot.Repository
	clock         clock.Clock
	uuidGenerator uuid.UUID
	botUser       string
	botID         models.PlayerID
	threadID      int
	pageSize      int
	markerLevel   int
	logger        *slog.Logger
}

// Ensure interface compliance at compile time
var _ Service = (*service)(nil)

// New creates a new reconstruction driver
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Reader == nil {
		return nil, ErrNilReader
	}
	if cfg.Detector == nil {
		return nil, ErrNilDetector
	}
	if cfg.Publisher == nil {
		return nil, ErrNilPublisher
	}
	if cfg.SnapshotRepo != nil {
		if cfg.Clock == nil {
			return nil, ErrNilClock
		}
		if cfg.UUIDGenerator == nil {
			return nil, ErrNilUUIDGenerator
		}
	}
	if cfg.BotUser == "" {
		return nil, ErrEmptyBotUser
	}
	if cfg.ThreadID <= 0 {
		return nil, ErrInvalidThreadID
	}

	engine, err := NewEngine(cfg.Evaluator, cfg.CommandHeadingLevel)
	if err != nil {
		return nil, err
	}

	s := &service{
		reader:        cfg.Reader,
		detector:      cfg.Detector,
		evaluator:     cfg.Evaluator,
		engine:        engine,
		publisher:     cfg.Publisher,
		snapshotRepo:  cfg.SnapshotRepo,
		clock:         cfg.Clock,
		uuidGenerator: cfg.UUIDGenerator,
		botUser:       cfg.BotUser,
		botID:         models.NewPlayerID(cfg.BotUser),
		threadID:      cfg.ThreadID,
		pageSize:      cfg.PageSize,
		markerLevel:   cfg.MarkerHeadingLevel,
		logger:        cfg.Logger,
	}
	if s.pageSize <= 0 {
		s.pageSize = models.DefaultPageSize
	}
	if s.markerLevel == 0 {
		s.markerLevel = models.DefaultMarkerHeadingLevel
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s, nil
}

// Observe performs every fetch of a cycle: the game-master's posts newest
// first, the bot's posts newest first, then the thread from the day-start page
// to the last page. The replay pages are skipped when no counting is needed.
func (s *service) Observe(ctx context.Context, prev models.GameState) (*Observation, error) {
	detection, err := s.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}

	lastCount, err := s.lastCount(ctx)
	if err != nil {
		return nil, err
	}

	obs := &Observation{
		Detection: detection,
		LastCount: lastCount,
	}

	state := ResolveDay(prev, obs)
	if state.CycleState() != models.CycleStateDayCounting {
		return obs, nil
	}

	obs.Posts, err = s.replayPosts(ctx, state.DayStartPostID)
	if err != nil {
		return nil, err
	}

	return obs, nil
}

// lastCount finds the bot's newest tally
func (s *service) lastCount(ctx context.Context) (LastCount, error) {
	var found LastCount
	err := thread.WalkUserPostsBackward(ctx, s.reader, s.botUser, func(post models.Post) bool {
		if post.Author != s.botID {
			return true
		}
		for _, text := range post.HeadingsAt(s.markerLevel) {
			switch text {
			case models.FinalCountMarker:
				found = LastCount{PostID: post.ID, Final: true}
				return false
			case models.CountMarker:
				found = LastCount{PostID: post.ID}
				return false
			}
		}
		return true
	})
	if err != nil {
		return LastCount{}, fmt.Errorf("failed to find last tally: %w", err)
	}
	return found, nil
}

// replayPosts fetches the thread from the page holding the day start to the
// end. The page count only grows during the walk: a page whose pagination
// could not be read reports a single page and must not cut the replay short.
func (s *service) replayPosts(ctx context.Context, dayStartPostID int) ([]models.Post, error) {
	var posts []models.Post

	pageNumber := models.PageForPost(dayStartPostID, s.pageSize)
	for pageCount := pageNumber; pageNumber <= pageCount; pageNumber++ {
		page, err := s.reader.FetchPage(ctx, &thread.FetchPageInput{Page: pageNumber})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch thread page %d: %w", pageNumber, err)
		}
		if page.PageCount > pageCount {
			pageCount = page.PageCount
		} else if page.PageCount < pageNumber {
			s.logger.Debug("page reported fewer pages than already walked",
				"page", pageNumber,
				"page_count", page.PageCount)
		}
		posts = append(posts, page.Posts...)
	}

	return posts, nil
}

// RecoverState rebuilds the game state from the thread
func (s *service) RecoverState(ctx context.Context, input *RecoverStateInput) (*RecoverStateOutput, error) {
	if input == nil {
		input = &RecoverStateInput{}
	}

	obs, err := s.Observe(ctx, input.State)
	if err != nil {
		return nil, err
	}

	state, effects := s.engine.Advance(input.State, obs)

	return &RecoverStateOutput{
		State:   state,
		Effects: effects,
	}, nil
}

// RunCycle recovers the state, publishes the due announcements and records a
// snapshot. A failed publish is returned wrapped in ErrPublishFailed; a failed
// snapshot is only logged.
func (s *service) RunCycle(ctx context.Context, input *RunCycleInput) (*RunCycleOutput, error) {
	if input == nil {
		input = &RunCycleInput{}
	}

	recovered, err := s.RecoverState(ctx, &RecoverStateInput{State: input.State})
	if err != nil {
		return nil, err
	}
	state := recovered.State

	switch state.CycleState() {
	case models.CycleStateNight:
		s.logger.Info("night, cycle skipped", "day", state.DayNumber)
	case models.CycleStateMajorityReached:
		if len(recovered.Effects) == 0 {
			s.logger.Info("majority already reached, cycle skipped", "day", state.DayNumber)
		}
	}

	var published []string
	for _, effect := range recovered.Effects {
		if err := s.execute(ctx, effect); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
		}
		published = append(published, describe(effect))
	}

	s.saveSnapshot(ctx, state, published)

	s.logger.Info("cycle complete",
		"state", state.CycleState(),
		"day", state.DayNumber,
		"votes", len(state.Ledger),
		"last_seen_post_id", state.LastSeenPostID,
		"published", len(published))

	return &RunCycleOutput{
		State:     state,
		Published: published,
	}, nil
}

func (s *service) execute(ctx context.Context, effect Effect) error {
	switch effect.Kind {
	case EffectPublishLynch:
		return s.publisher.PublishLynch(ctx, &forum.PublishLynchInput{
			ThreadID:   s.threadID,
			Tally:      effect.Tally,
			VictimName: effect.VictimName,
			AsOfPostID: effect.AsOfPostID,
		})
	case EffectPublishTally:
		return s.publisher.PublishTally(ctx, &forum.PublishTallyInput{
			ThreadID:          s.threadID,
			Tally:             effect.Tally,
			AliveCount:        effect.AliveCount,
			MajorityThreshold: effect.MajorityThreshold,
			AsOfPostID:        effect.AsOfPostID,
		})
	default:
		return fmt.Errorf("unknown effect %q", effect.Kind)
	}
}

func (s *service) saveSnapshot(ctx context.Context, state models.GameState, published []string) {
	if s.snapshotRepo == nil {
		return
	}

	err := s.snapshotRepo.SaveSnapshot(ctx, &snapshot.SaveSnapshotInput{
		Snapshot: &models.Snapshot{
			ID:                s.uuidGenerator.NewUUID(),
			ThreadID:          s.threadID,
			CycleState:        state.CycleState(),
			State:             state,
			Tally:             models.NewTally(state.Ledger, s.evaluator.Rights()),
			MajorityThreshold: tally.MajorityThreshold(len(state.Roster)),
			Published:         published,
			CreatedAt:         s.clock.Now(),
		},
	})
	if err != nil {
		s.logger.Warn("failed to save snapshot", "thread_id", s.threadID, "error", err)
	}
}

func describe(effect Effect) string {
	if effect.Kind == EffectPublishLynch {
		return fmt.Sprintf("lynch %s at post %d", effect.VictimName, effect.AsOfPostID)
	}
	return fmt.Sprintf("tally at post %d", effect.AsOfPostID)
}
