package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Command is a slash command served by the bot
type Command interface {
	// Definition is the command as registered with Discord
	Definition() *discordgo.ApplicationCommand

	// Handle answers one invocation of the command
	Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error
}

// subcommandOf returns the invoked subcommand, or fallback when there is none
func subcommandOf(data discordgo.ApplicationCommandInteractionData, fallback string) string {
	for _, opt := range data.Options {
		if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			return opt.Name
		}
	}
	return fallback
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// respondError answers only the invoking user
func respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) error {
	return respond(s, i, &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorRed,
	}, true)
}
