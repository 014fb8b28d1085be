package game

import (
	"github.com/KirkDiggler/mafiabot/internal/commands"
	"github.com/KirkDiggler/mafiabot/internal/models"
	"github.com/KirkDiggler/mafiabot/internal/services/phase"
	"github.com/KirkDiggler/mafiabot/internal/services/tally"
)

// Engine turns one cycle's observation into the next state. It performs no I/O:
// announcements come back as effects for the caller to execute.
type Engine struct {
	evaluator    *tally.Evaluator
	commandLevel int
}

// NewEngine creates a new engine
func NewEngine(evaluator *tally.Evaluator, commandLevel int) (*Engine, error) {
	if evaluator == nil {
		return nil, ErrNilEvaluator
	}
	if commandLevel == 0 {
		commandLevel = models.DefaultCommandHeadingLevel
	}
	return &Engine{evaluator: evaluator, commandLevel: commandLevel}, nil
}

// ResolveDay applies the phase detection and the bot's last tally to the
// previous state. The result decides whether the cycle needs a replay.
func ResolveDay(prev models.GameState, obs *Observation) models.GameState {
	state := phase.Resolve(prev, obs.Detection)
	state.LastPublishedCountID = obs.LastCount.PostID

	if state.Phase == models.PhaseDay && obs.LastCount.Final && obs.LastCount.PostID > state.DayStartPostID {
		state.MajorityReached = true
	}

	return state
}

// Advance computes the next state and the announcements due. The ledger is
// rebuilt from scratch by replaying every post after the day start, so calling
// Advance twice with the same observation yields the same result, whatever
// state it started from.
func (e *Engine) Advance(prev models.GameState, obs *Observation) (models.GameState, []Effect) {
	state := ResolveDay(prev, obs)

	// Vote state never survives a cycle; outside counting it stays empty.
	state.Ledger = nil
	state.RecountRequests = nil
	state.PendingRecountRequest = false

	if state.CycleState() != models.CycleStateDayCounting {
		return state, nil
	}

	var effects []Effect
	for _, post := range obs.Posts {
		if post.ID <= state.DayStartPostID {
			continue
		}
		if post.ID > state.LastSeenPostID {
			state.LastSeenPostID = post.ID
		}
		if state.MajorityReached {
			continue
		}

		if lynch, ok := e.replayPost(&state, post); ok {
			effects = append(effects, lynch)
		}
	}

	if state.MajorityReached {
		return state, effects
	}

	if e.evaluator.ShouldPublish(&state) {
		effects = append(effects, Effect{
			Kind:              EffectPublishTally,
			Tally:             models.NewTally(state.Ledger, e.evaluator.Rights()),
			AliveCount:        len(state.Roster),
			MajorityThreshold: tally.MajorityThreshold(len(state.Roster)),
			AsOfPostID:        state.LastSeenPostID,
		})
	}

	return state, effects
}

// replayPost applies the commands of one post and returns the lynch
// announcement if one of its votes decided the day
func (e *Engine) replayPost(state *models.GameState, post models.Post) (Effect, bool) {
	for _, cmd := range commands.Parse(post.Headings, e.commandLevel) {
		if cmd.Kind == commands.KindRecount {
			e.evaluator.RequestRecount(state, post.Author, post.ID)
			continue
		}

		out := e.evaluator.ApplyVote(state, &tally.ApplyVoteInput{
			Voter:  post.Author,
			Target: cmd.Target,
			PostID: post.ID,
		})
		if out.Lynched {
			return Effect{
				Kind:       EffectPublishLynch,
				Tally:      models.NewTally(state.Ledger, e.evaluator.Rights()),
				VictimName: e.evaluator.Rights().DisplayName(out.Victim),
				AsOfPostID: post.ID,
			}, true
		}
	}
	return Effect{}, false
}
