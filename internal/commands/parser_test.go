package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

func TestParseHeading(t *testing.T) {
	tests := []struct {
		name    string
		heading string
		want    Command
		ok      bool
	}{
		{name: "recount", heading: "Recuento", want: Command{Kind: KindRecount}, ok: true},
		{name: "unvote", heading: "DESVOTO", want: Command{Kind: KindUnvote, Target: models.TargetUnvote}, ok: true},
		{name: "vote", heading: "Voto Alice", want: Command{Kind: KindVote, Target: "alice"}, ok: true},
		{name: "vote takes last token", heading: "voto a   Bob", want: Command{Kind: KindVote, Target: "bob"}, ok: true},
		{name: "no lynch", heading: "Voto No Linchamiento", want: Command{Kind: KindVote, Target: models.TargetNoLynch}, ok: true},
		{name: "recount with extra text", heading: "recuento por favor", ok: false},
		{name: "chatter", heading: "Mi análisis del día", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHeading(tt.heading)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseKeepsOrderAndFiltersLevel(t *testing.T) {
	headings := []models.Heading{
		models.NewHeading(4, "voto carol"),
		models.NewHeading(2, "voto dave"),
		models.NewHeading(4, "desvoto"),
		models.NewHeading(4, "hola"),
		models.NewHeading(4, "voto bob"),
		models.NewHeading(4, "recuento"),
	}

	got := Parse(headings, 4)

	assert.Equal(t, []Command{
		{Kind: KindVote, Target: "carol"},
		{Kind: KindUnvote, Target: models.TargetUnvote},
		{Kind: KindVote, Target: "bob"},
		{Kind: KindRecount},
	}, got)
}

func TestParseHeadingLevelIsConfigurable(t *testing.T) {
	headings := []models.Heading{models.NewHeading(3, "voto carol")}

	assert.Empty(t, Parse(headings, 4))
	assert.Equal(t, []Command{{Kind: KindVote, Target: "carol"}}, Parse(headings, 3))
}
