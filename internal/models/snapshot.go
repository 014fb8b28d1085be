package models

import (
	"time"
)

// Snapshot records the outcome of one polling cycle. It is informational only:
// the bot never reads a snapshot back to seed its own state.
type Snapshot struct {
	// ID is the unique identifier for this snapshot
	ID string `json:"id"`

	// ThreadID identifies the game thread
	ThreadID int `json:"thread_id"`

	// CycleState is the driver state at the end of the cycle
	CycleState CycleState `json:"cycle_state"`

	// State is the reconstructed game state
	State GameState `json:"state"`

	// Tally is the display-ready grouping of the ledger
	Tally *Tally `json:"tally,omitempty"`

	// MajorityThreshold is the threshold for the roster at the end of the cycle
	MajorityThreshold int `json:"majority_threshold"`

	// Published lists the announcements made during the cycle
	Published []string `json:"published,omitempty"`

	// CreatedAt is when the cycle finished
	CreatedAt time.Time `json:"created_at"`
}
