package tally

import (
	"github.com/KirkDiggler/mafiabot/internal/models"
)

// MajorityThreshold is the number of votes needed to lynch with rosterSize
// players alive: ceil(n/2), plus one when n is even.
func MajorityThreshold(rosterSize int) int {
	threshold := (rosterSize + 1) / 2
	if rosterSize%2 == 0 {
		threshold++
	}
	return threshold
}

// LynchThreshold is the majority threshold adjusted by the target's lynch
// modifier. Targets without a rights entry (such as the no-lynch sentinel)
// use the plain majority.
func (e *Evaluator) LynchThreshold(state *models.GameState, target models.PlayerID) int {
	threshold := MajorityThreshold(len(state.Roster))
	if entry, ok := e.rights.Lookup(target); ok {
		threshold += entry.ModToLynch
	}
	return threshold
}

// IsLynched reports whether target holds enough active votes to be lynched
func (e *Evaluator) IsLynched(state *models.GameState, target models.PlayerID) bool {
	return state.Ledger.CountForTarget(target) >= e.LynchThreshold(state, target)
}
