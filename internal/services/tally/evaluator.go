// Package tally adjudicates vote commands against the roster, the rights table
// and the active ledger, and decides when a lynch or a tally is due.
package tally

import (
	"errors"
	"log/slog"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// Evaluator validates and applies votes for a single game
type Evaluator struct {
	rights       models.RightsTable
	gameMaster   models.PlayerID
	pushInterval int
	logger       *slog.Logger
}

// New creates a new vote evaluator
func New(cfg *Config) (*Evaluator, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Rights == nil {
		return nil, ErrNilRights
	}
	if cfg.GameMaster == "" {
		return nil, ErrEmptyGameMaster
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Evaluator{
		rights:       cfg.Rights.WithGameMaster(cfg.GameMaster),
		gameMaster:   cfg.GameMaster,
		pushInterval: cfg.PostPushInterval,
		logger:       logger,
	}, nil
}

// Rights returns the rights table, including the synthetic game-master entry
func (e *Evaluator) Rights() models.RightsTable {
	return e.rights
}

// GameMaster returns the game-master's id
func (e *Evaluator) GameMaster() models.PlayerID {
	return e.gameMaster
}

// IsValid reports whether voter may cast (or, for models.TargetUnvote, withdraw) a vote
func (e *Evaluator) IsValid(state *models.GameState, voter, target models.PlayerID) bool {
	return e.Validate(state, voter, target) == nil
}

// Validate returns the reason a vote is inadmissible, or nil. It never mutates state.
func (e *Evaluator) Validate(state *models.GameState, voter, target models.PlayerID) error {
	if state.MajorityReached {
		return ErrMajorityReached
	}

	isGameMaster := voter == e.gameMaster
	if !isGameMaster && !state.IsAlive(voter) {
		return ErrVoterNotAlive
	}

	currentVotes := state.Ledger.CountByVoter(voter)

	if target == models.TargetUnvote {
		if currentVotes > 0 {
			return nil
		}
		return ErrNoVoteToRemove
	}

	voterRights, ok := e.rights.Lookup(voter)
	if !ok {
		return ErrVoterNotConfigured
	}
	maxVotes := voterRights.AllowedVotes

	if target == models.TargetNoLynch {
		if currentVotes < maxVotes {
			return nil
		}
		return ErrVoteQuotaExceeded
	}

	if !state.IsAlive(target) {
		return ErrTargetNotAlive
	}

	targetRights, ok := e.rights.Lookup(target)
	if !ok {
		return ErrTargetNotConfigured
	}
	if !targetRights.CanBeVoted {
		return ErrTargetNotVotable
	}
	if currentVotes >= maxVotes {
		return ErrVoteQuotaExceeded
	}

	return nil
}

// ApplyVote validates a vote command and, when admissible, applies it to the
// ledger. A new vote that reaches its target's lynch threshold sets
// MajorityReached, which locks out every later vote until a new day.
func (e *Evaluator) ApplyVote(state *models.GameState, input *ApplyVoteInput) *ApplyVoteOutput {
	if err := e.Validate(state, input.Voter, input.Target); err != nil {
		e.logRejection(input, err)
		return &ApplyVoteOutput{Rejection: err}
	}

	if input.Target == models.TargetUnvote {
		state.Ledger, _ = state.Ledger.RemoveFirstByVoter(input.Voter)
		e.logger.Info("vote withdrawn", "voter", input.Voter, "post_id", input.PostID)
		return &ApplyVoteOutput{Applied: true}
	}

	state.Ledger = state.Ledger.Append(models.VoteRecord{
		Target: input.Target,
		Voter:  input.Voter,
		PostID: input.PostID,
	})
	e.logger.Info("vote counted", "voter", input.Voter, "target", input.Target, "post_id", input.PostID)

	if !e.IsLynched(state, input.Target) {
		return &ApplyVoteOutput{Applied: true}
	}

	state.MajorityReached = true
	e.logger.Info("lynch threshold reached",
		"victim", input.Target,
		"votes", state.Ledger.CountForTarget(input.Target),
		"post_id", input.PostID)

	return &ApplyVoteOutput{
		Applied: true,
		Lynched: true,
		Victim:  input.Target,
	}
}

func (e *Evaluator) logRejection(input *ApplyVoteInput, err error) {
	attrs := []any{"voter", input.Voter, "target", input.Target, "post_id", input.PostID, "reason", err.Error()}

	switch {
	case errors.Is(err, ErrMajorityReached):
		e.logger.Info("vote ignored", attrs...)
	case errors.Is(err, ErrTargetNotConfigured), errors.Is(err, ErrVoterNotConfigured):
		e.logger.Warn("player missing from rights table", attrs...)
	default:
		e.logger.Warn("invalid vote", attrs...)
	}
}
