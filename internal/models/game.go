package models

import "slices"

// Phase is the in-game time of day
type Phase string

const (
	// PhaseNight means no votes are counted
	PhaseNight Phase = "night"

	// PhaseDay means votes are being accepted
	PhaseDay Phase = "day"
)

// CycleState is the reconstruction driver's state machine position
type CycleState string

const (
	// CycleStateNight indicates the cycle was skipped because it is night
	CycleStateNight CycleState = "night"

	// CycleStateDayCounting indicates votes are being replayed and counted
	CycleStateDayCounting CycleState = "day_counting"

	// CycleStateMajorityReached indicates a lynch happened and counting is locked until the next day
	CycleStateMajorityReached CycleState = "majority_reached"
)

// GameState is everything reconstructed from the thread in one polling cycle
type GameState struct {
	// Phase is the current phase as reported by the phase detector
	Phase Phase `json:"phase"`

	// DayNumber is the number of the current (or last) day
	DayNumber int `json:"day_number"`

	// DayStartPostID is the post id of the latest day-start marker
	DayStartPostID int `json:"day_start_post_id"`

	// LastPublishedCountID is the post id of the bot's latest tally
	LastPublishedCountID int `json:"last_published_count_id"`

	// LastSeenPostID is the greatest post id observed while replaying
	LastSeenPostID int `json:"last_seen_post_id"`

	// MajorityReached locks out further votes until a new day starts
	MajorityReached bool `json:"majority_reached"`

	// PendingRecountRequest is set by a fresh game-master recount request
	PendingRecountRequest bool `json:"pending_recount_request"`

	// Roster is the ordered list of players alive for the current day
	Roster []PlayerID `json:"roster"`

	// Ledger holds the active votes of the current day
	Ledger Ledger `json:"ledger"`

	// RecountRequests counts recount requests per player for the current day
	RecountRequests map[PlayerID]int `json:"recount_requests,omitempty"`
}

// CycleState derives the state machine position from the game state
func (g *GameState) CycleState() CycleState {
	switch {
	case g.Phase != PhaseDay:
		return CycleStateNight
	case g.MajorityReached:
		return CycleStateMajorityReached
	default:
		return CycleStateDayCounting
	}
}

// IsAlive tells whether a player is in the current roster
func (g *GameState) IsAlive(id PlayerID) bool {
	return slices.Contains(g.Roster, id)
}

// Clone returns a deep copy of the state
func (g GameState) Clone() GameState {
	out := g
	out.Roster = slices.Clone(g.Roster)
	out.Ledger = g.Ledger.Clone()
	if g.RecountRequests != nil {
		out.RecountRequests = make(map[PlayerID]int, len(g.RecountRequests))
		for id, n := range g.RecountRequests {
			out.RecountRequests[id] = n
		}
	}
	return out
}
