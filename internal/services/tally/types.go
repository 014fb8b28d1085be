package tally

import (
	"log/slog"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// Config holds configuration for the vote evaluator
type Config struct {
	// Rights is the per-player rights table loaded from the config store
	Rights models.RightsTable

	// GameMaster is the game-master's player id; they may always vote and request recounts
	GameMaster models.PlayerID

	// PostPushInterval is how many posts may pass before an interim tally is published
	PostPushInterval int

	// Logger receives rejected-vote warnings (optional)
	Logger *slog.Logger
}

// ApplyVoteInput contains parameters for applying a vote command to the ledger
type ApplyVoteInput struct {
	// Voter is the author of the command
	Voter models.PlayerID

	// Target is the voted player, models.TargetNoLynch or models.TargetUnvote
	Target models.PlayerID

	// PostID is the post holding the command
	PostID int
}

// ApplyVoteOutput contains the result of applying a vote command
type ApplyVoteOutput struct {
	// Applied reports whether the ledger changed
	Applied bool

	// Rejection is the reason the vote was dropped, nil when applied
	Rejection error

	// Lynched reports whether this vote reached the target's lynch threshold
	Lynched bool

	// Victim is the lynched player when Lynched is set
	Victim models.PlayerID
}
