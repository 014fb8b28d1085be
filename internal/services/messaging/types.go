package messaging

import "github.com/KirkDiggler/mafiabot/internal/models"

// Config holds configuration for the messaging service
type Config struct {
	// MarkerHeadingLevel is the heading level of the count marker; it must match
	// the level the driver scans for. Zero means models.DefaultMarkerHeadingLevel.
	MarkerHeadingLevel int
}

// RenderTallyInput contains parameters for rendering an interim tally
type RenderTallyInput struct {
	// Tally is the grouped ledger
	Tally *models.Tally

	// AliveCount is the roster size
	AliveCount int

	// MajorityThreshold is the votes needed to lynch with no modifier
	MajorityThreshold int

	// AsOfPostID is the last post taken into account
	AsOfPostID int
}

// RenderLynchInput contains parameters for rendering a lynch announcement
type RenderLynchInput struct {
	// Tally is the grouped ledger at the moment of the lynch
	Tally *models.Tally

	// VictimName is the lynched player's display name
	VictimName string

	// AsOfPostID is the post holding the deciding vote
	AsOfPostID int
}

// RenderOutput contains a rendered post body
type RenderOutput struct {
	// Body is the post body, starting with the count marker heading
	Body string
}
