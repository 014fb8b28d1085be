package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

const (
	colorGreen = 0x00ff00
	colorRed   = 0xff0000
	colorBlue  = 0x3498db
)

var cycleStateLabels = map[models.CycleState]string{
	models.CycleStateNight:           "Noche",
	models.CycleStateDayCounting:     "Día en curso",
	models.CycleStateMajorityReached: "Mayoría alcanzada",
}

// renderSnapshot renders the latest cycle as an embed
func renderSnapshot(snap *models.Snapshot) *discordgo.MessageEmbed {
	color := colorGreen
	if snap.CycleState == models.CycleStateMajorityReached {
		color = colorRed
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Estado", Value: cycleStateLabels[snap.CycleState], Inline: true},
		{Name: "Día", Value: fmt.Sprintf("%d", snap.State.DayNumber), Inline: true},
		{Name: "Vivos", Value: fmt.Sprintf("%d", len(snap.State.Roster)), Inline: true},
		{Name: "Mayoría", Value: fmt.Sprintf("%d", snap.MajorityThreshold), Inline: true},
	}

	if snap.Tally != nil {
		for _, entry := range snap.Tally.Entries {
			fields = append(fields, &discordgo.MessageEmbedField{
				Name:  fmt.Sprintf("%s (%d)", entry.TargetName, entry.Count()),
				Value: strings.Join(entry.Voters, ", "),
			})
		}
	}

	return &discordgo.MessageEmbed{
		Title:       models.CountMarker,
		Description: fmt.Sprintf("Hasta el mensaje #%d", snap.State.LastSeenPostID),
		Color:       color,
		Fields:      fields,
		Timestamp:   snap.CreatedAt.Format(time.RFC3339),
	}
}

// renderHistory renders recent cycles, newest first
func renderHistory(snaps []*models.Snapshot) *discordgo.MessageEmbed {
	var lines []string
	for _, snap := range snaps {
		line := fmt.Sprintf("`%s` %s, día %d, %d votos",
			snap.CreatedAt.Format("02/01 15:04"),
			cycleStateLabels[snap.CycleState],
			snap.State.DayNumber,
			len(snap.State.Ledger))
		if len(snap.Published) > 0 {
			line += " · " + strings.Join(snap.Published, "; ")
		}
		lines = append(lines, line)
	}

	return &discordgo.MessageEmbed{
		Title:       "Historial",
		Description: strings.Join(lines, "\n"),
		Color:       colorBlue,
	}
}
