package models

const (
	// TargetNoLynch is the sentinel target of a "voto no linchamiento" command
	TargetNoLynch PlayerID = "no_lynch"

	// TargetUnvote is the pseudo-target of a "desvoto" command
	TargetUnvote PlayerID = "desvoto"

	// NoLynchDisplayName is how the no-lynch sentinel is shown in tallies
	NoLynchDisplayName = "No linchamiento"
)

// VoteRecord is one active vote in the current day
type VoteRecord struct {
	// Target is the player receiving the vote
	Target PlayerID `json:"target"`

	// Voter is the player casting the vote
	Voter PlayerID `json:"voter"`

	// PostID is the post where the vote was cast
	PostID int `json:"post_id"`
}

// Ledger is the ordered collection of active votes for the current day
type Ledger []VoteRecord

// CountByVoter returns how many active votes a voter holds
func (l Ledger) CountByVoter(voter PlayerID) int {
	count := 0
	for _, record := range l {
		if record.Voter == voter {
			count++
		}
	}
	return count
}

// CountForTarget returns how many active votes a target has received
func (l Ledger) CountForTarget(target PlayerID) int {
	count := 0
	for _, record := range l {
		if record.Target == target {
			count++
		}
	}
	return count
}

// Append returns the ledger with a new record at the end
func (l Ledger) Append(record VoteRecord) Ledger {
	return append(l, record)
}

// RemoveFirstByVoter returns the ledger without the first record cast by voter.
// The second return value reports whether a record was removed.
func (l Ledger) RemoveFirstByVoter(voter PlayerID) (Ledger, bool) {
	for i, record := range l {
		if record.Voter == voter {
			out := make(Ledger, 0, len(l)-1)
			out = append(out, l[:i]...)
			return append(out, l[i+1:]...), true
		}
	}
	return l, false
}

// Clone returns an independent copy of the ledger
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

// TallyEntry is the votes received by one target, ready for publishing
type TallyEntry struct {
	// Target is the normalised id of the voted player
	Target PlayerID `json:"target"`

	// TargetName is the target's display name
	TargetName string `json:"target_name"`

	// Voters are the display names of the voters, in vote order
	Voters []string `json:"voters"`
}

// Count returns the number of votes in the entry
func (e TallyEntry) Count() int {
	return len(e.Voters)
}

// Tally is a display-ready grouping of a ledger by target
type Tally struct {
	// Entries are ordered by the first vote each target received
	Entries []TallyEntry `json:"entries"`
}

// NewTally groups a ledger by target, translating ids through the rights table
func NewTally(ledger Ledger, rights RightsTable) *Tally {
	tally := &Tally{Entries: []TallyEntry{}}
	index := make(map[PlayerID]int)
	for _, record := range ledger {
		i, ok := index[record.Target]
		if !ok {
			i = len(tally.Entries)
			index[record.Target] = i
			tally.Entries = append(tally.Entries, TallyEntry{
				Target:     record.Target,
				TargetName: rights.DisplayName(record.Target),
			})
		}
		tally.Entries[i].Voters = append(tally.Entries[i].Voters, rights.DisplayName(record.Voter))
	}
	return tally
}
