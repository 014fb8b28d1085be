package models

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlayerID is a case-insensitive forum user name in its normalised (lower-case) form
type PlayerID string

// NewPlayerID normalises a forum user name into a PlayerID
func NewPlayerID(name string) PlayerID {
	return PlayerID(cases.Lower(language.Und).String(strings.TrimSpace(name)))
}

// String returns the id as a plain string
func (p PlayerID) String() string {
	return string(p)
}

// UnlimitedVotes is the vote allowance of the game-master
const UnlimitedVotes = math.MaxInt32

// GameMasterDisplayName is the name shown for the game-master in published tallies
const GameMasterDisplayName = "GM"

// RightsEntry is the voting configuration for one player
type RightsEntry struct {
	// DisplayName is the player's forum name as written in the rights table
	DisplayName string

	// AllowedVotes is the maximum number of simultaneously active votes
	AllowedVotes int

	// CanBeVoted tells whether votes against this player are admissible
	CanBeVoted bool

	// ModToLynch is added to the majority threshold when this player is the target
	ModToLynch int

	// AllowedVoteRequests is the recount request quota (tracked, not enforced)
	AllowedVoteRequests int
}

// RightsTable maps normalised player ids to their rights
type RightsTable map[PlayerID]RightsEntry

// Lookup returns the entry for a player
func (t RightsTable) Lookup(id PlayerID) (RightsEntry, bool) {
	entry, ok := t[id]
	return entry, ok
}

// DisplayName returns the forum name for an id, falling back to the id itself
func (t RightsTable) DisplayName(id PlayerID) string {
	if id == TargetNoLynch {
		return NoLynchDisplayName
	}
	if entry, ok := t[id]; ok && entry.DisplayName != "" {
		return entry.DisplayName
	}
	return id.String()
}

// WithGameMaster returns a copy of the table with the synthetic game-master entry added
func (t RightsTable) WithGameMaster(gameMaster PlayerID) RightsTable {
	out := make(RightsTable, len(t)+1)
	for id, entry := range t {
		out[id] = entry
	}
	out[gameMaster] = RightsEntry{
		DisplayName:  GameMasterDisplayName,
		AllowedVotes: UnlimitedVotes,
		CanBeVoted:   false,
	}
	return out
}
