// Package commands extracts game commands from the headings of a forum post.
package commands

import (
	"strings"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

// Kind is the type of a parsed command
type Kind string

const (
	// KindRecount asks the bot to publish a tally now
	KindRecount Kind = "recount"

	// KindUnvote withdraws one of the author's active votes
	KindUnvote Kind = "unvote"

	// KindVote casts a vote for Target
	KindVote Kind = "vote"
)

const (
	headingRecount = "recuento"
	headingUnvote  = "desvoto"
	headingVote    = "voto"
	headingNoLynch = "no linchamiento"
)

// Command is one game command found in a post
type Command struct {
	// Kind is the command type
	Kind Kind

	// Target is the voted player for KindVote, models.TargetUnvote for KindUnvote
	Target models.PlayerID
}

// Parse classifies every heading of the given level, in order. Headings that
// are not commands are ignored, so a post may yield zero or many commands.
func Parse(headings []models.Heading, level int) []Command {
	var parsed []Command
	for _, heading := range headings {
		if heading.Level != level {
			continue
		}
		if cmd, ok := ParseHeading(heading.Text); ok {
			parsed = append(parsed, cmd)
		}
	}
	return parsed
}

// ParseHeading classifies a single heading text
func ParseHeading(text string) (Command, bool) {
	text = strings.TrimSpace(models.NewPlayerID(text).String())

	switch {
	case text == headingRecount:
		return Command{Kind: KindRecount}, true
	case text == headingUnvote:
		return Command{Kind: KindUnvote, Target: models.TargetUnvote}, true
	case strings.HasPrefix(text, headingVote):
		if strings.HasSuffix(text, headingNoLynch) {
			return Command{Kind: KindVote, Target: models.TargetNoLynch}, true
		}
		fields := strings.Fields(text)
		return Command{Kind: KindVote, Target: models.PlayerID(fields[len(fields)-1])}, true
	default:
		return Command{}, false
	}
}
