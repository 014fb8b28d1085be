package forum

import "github.com/KirkDiggler/mafiabot/internal/models"

// PublishTallyInput contains parameters for publishing an interim tally
type PublishTallyInput struct {
	// ThreadID is the numeric id of the game thread
	ThreadID int

	// Tally is the grouped ledger
	Tally *models.Tally

	// AliveCount is the roster size
	AliveCount int

	// MajorityThreshold is the votes needed to lynch with no modifier
	MajorityThreshold int

	// AsOfPostID is the last post taken into account
	AsOfPostID int
}

// PublishLynchInput contains parameters for publishing a lynch announcement
type PublishLynchInput struct {
	// ThreadID is the numeric id of the game thread
	ThreadID int

	// Tally is the grouped ledger at the moment of the lynch
	Tally *models.Tally

	// VictimName is the lynched player's display name
	VictimName string

	// AsOfPostID is the post holding the deciding vote
	AsOfPostID int
}
