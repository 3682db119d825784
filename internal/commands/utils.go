package commands

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Responder is the part of *discordgo.Session the handlers need.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// ParseSnowflake converts a Discord ID to its numeric form, 0 if invalid.
func ParseSnowflake(id string) uint64 {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		log.WithError(err).WithField("id", id).Warn("Failed to parse snowflake")
		return 0
	}
	return n
}

// InteractionUserID returns the invoking user, whether the interaction came
// from a guild or a DM.
func InteractionUserID(i *discordgo.InteractionCreate) uint64 {
	if i.Member != nil && i.Member.User != nil {
		return ParseSnowflake(i.Member.User.ID)
	}
	if i.User != nil {
		return ParseSnowflake(i.User.ID)
	}
	return 0
}

func respondEphemeral(s Responder, i *discordgo.InteractionCreate, content string) {
	respond(s, i, &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

func respond(s Responder, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.WithError(err).WithField("interaction_id", i.ID).Error("Failed to respond to interaction")
	}
}

func getIntOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *int64 {
	for _, o := range opts {
		if o.Name == name {
			v := o.IntValue()
			return &v
		}
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 || n == -1 {
		return one
	}
	return many
}
