package game

import (
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

// Config holds configuration for the reconstruction driver
type Config struct {
	// Reader fetches thread pages and the bot's own posts
	Reader thread.Reader

	// Detector finds the current phase in the game-master's posts
	Detector *phase.Detector

	// Evaluator adjudicates votes and publish decisions
	Evaluator *tally.Evaluator

	// Publisher posts announcements to the thread
	Publisher forum.Publisher

	// SnapshotRepo records each cycle's outcome (optional)
	SnapshotRepo snapshot.Repository

	// Clock stamps snapshots; required with SnapshotRepo
	Clock clock.Clock

	// UUIDGenerator names snapshots; required with SnapshotRepo
	UUIDGenerator uuid.UUID

	// BotUser is the bot's forum user name, used to find its previous tallies
	BotUser string

	// ThreadID is the numeric id of the game thread
	ThreadID int

	// PageSize is the number of posts per thread page; zero means models.DefaultPageSize
	PageSize int

	// CommandHeadingLevel is the heading level of vote commands; zero means models.DefaultCommandHeadingLevel
	CommandHeadingLevel int

	// MarkerHeadingLevel is the heading level of count markers; zero means models.DefaultMarkerHeadingLevel
	MarkerHeadingLevel int

	// Logger is optional
	Logger *slog.Logger
}

// LastCount is the bot's most recent tally found in the thread
type LastCount struct {
	// PostID is the post holding the tally, zero when the bot never posted one
	PostID int

	// Final reports whether that tally announced a lynch
	Final bool
}

// Observation is everything fetched from the thread in one cycle
type Observation struct {
	// Detection is the phase detector's result
	Detection *phase.Detection

	// LastCount is the bot's latest tally
	LastCount LastCount

	// Posts are the thread posts from the day-start page onward, oldest first.
	// Empty when the cycle does not need a replay.
	Posts []models.Post
}

// EffectKind identifies an announcement
type EffectKind string

const (
	// EffectPublishTally is an interim tally
	EffectPublishTally EffectKind = "publish_tally"

	// EffectPublishLynch is a final tally announcing a lynch
	EffectPublishLynch EffectKind = "publish_lynch"
)

// Effect is an announcement decided by the engine and executed by the caller
type Effect struct {
	// Kind is the announcement type
	Kind EffectKind

	// Tally is the grouped ledger to publish
	Tally *models.Tally

	// AliveCount is the roster size (tallies only)
	AliveCount int

	// MajorityThreshold is the plain majority for the roster (tallies only)
	MajorityThreshold int

	// VictimName is the lynched player's display name (lynches only)
	VictimName string

	// AsOfPostID is the last post counted, or the deciding vote for a lynch
	AsOfPostID int
}

// RecoverStateInput contains parameters for recovering the game state
type RecoverStateInput struct {
	// State is the previous cycle's state; the zero value for a fresh start
	State models.GameState
}

// RecoverStateOutput contains the recovered game state
type RecoverStateOutput struct {
	// State is the reconstructed state
	State models.GameState

	// Effects are the announcements that are due
	Effects []Effect
}

// RunCycleInput contains parameters for running one polling cycle
type RunCycleInput struct {
	// State is the previous cycle's state; the zero value for a fresh start
	State models.GameState
}

// RunCycleOutput contains the result of one polling cycle
type RunCycleOutput struct {
	// State is the state to carry into the next cycle
	State models.GameState

	// Published describes the announcements made, in order
	Published []string
}
