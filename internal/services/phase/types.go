package phase

import (
	"log/slog"

	"github.com/KirkDiggler/mafiabot/internal/models"
	"github.com/KirkDiggler/mafiabot/internal/repositories/thread"
)

// Config holds configuration for the phase detector
type Config struct {
	// Reader is used to walk the game-master's posts
	Reader thread.Reader

	// GameMaster is the game-master's forum user name, as used by the author filter
	GameMaster string

	// MarkerHeadingLevel is the heading level of day markers; zero means models.DefaultMarkerHeadingLevel
	MarkerHeadingLevel int

	// Logger is optional
	Logger *slog.Logger
}

// MarkerKind tells a day-start marker from a day-end marker
type MarkerKind string

const (
	// MarkerDayStart is a "Día N" heading
	MarkerDayStart MarkerKind = "day_start"

	// MarkerDayEnd is a "Final del día N" heading
	MarkerDayEnd MarkerKind = "day_end"
)

// Marker is a phase-change heading found in a game-master post
type Marker struct {
	// Kind is the marker kind
	Kind MarkerKind `json:"kind"`

	// DayNumber is the N of the heading
	DayNumber int `json:"day_number"`

	// PostID is the post holding the heading
	PostID int `json:"post_id"`
}

// Detection is the result of one backward scan of the game-master's posts
type Detection struct {
	// Phase is PhaseDay when the newest marker opens a day, PhaseNight otherwise
	Phase models.Phase

	// Marker is the newest marker found, nil when there is none
	Marker *Marker

	// Roster is the player list of the day-start post, nil for end markers
	Roster []models.PlayerID
}
