package models

// Forum-visible strings the bot reads and writes. Changing any of them breaks
// detection of markers already present in running games.
const (
	// DayStartPattern matches a game-master heading that opens a day
	DayStartPattern = `^Día ([0-9]+)$`

	// DayEndPattern matches a game-master heading that closes a day
	DayEndPattern = `^Final del día ([0-9]+)$`

	// CountMarker is the heading of an interim tally posted by the bot
	CountMarker = "Recuento de votos"

	// FinalCountMarker is the heading of the tally announcing a lynch
	FinalCountMarker = "Recuento de votos final"

	// DefaultPageSize is the number of posts per thread page
	DefaultPageSize = 30

	// DefaultCommandHeadingLevel is the heading level players use for commands (h4)
	DefaultCommandHeadingLevel = 4

	// DefaultMarkerHeadingLevel is the heading level used for phase and count markers (h2)
	DefaultMarkerHeadingLevel = 2
)
