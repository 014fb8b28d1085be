package phase

import "github.com/KirkDiggler/mafiabot/internal/models"

// Resolve applies a detection to the previous state and returns the new one.
//
// A start marker newer than the known day start opens a new day: the roster is
// replaced, the majority lock and the recount counters are cleared. An older or
// equal start marker only sets the phase. End markers and the absence of any
// marker mean night.
func Resolve(prev models.GameState, detection *Detection) models.GameState {
	next := prev.Clone()

	if detection == nil || detection.Marker == nil || detection.Marker.Kind != MarkerDayStart {
		next.Phase = models.PhaseNight
		return next
	}

	next.Phase = models.PhaseDay

	marker := detection.Marker
	if marker.PostID <= prev.DayStartPostID {
		return next
	}

	next.DayNumber = marker.DayNumber
	next.DayStartPostID = marker.PostID
	next.MajorityReached = false
	next.PendingRecountRequest = false
	next.Roster = append([]models.PlayerID(nil), detection.Roster...)
	next.Ledger = nil
	next.RecountRequests = nil

	return next
}

// IsNewDay reports whether the detection opens a day later than the known one
func IsNewDay(prev models.GameState, detection *Detection) bool {
	return detection != nil &&
		detection.Marker != nil &&
		detection.Marker.Kind == MarkerDayStart &&
		detection.Marker.PostID > prev.DayStartPostID
}
