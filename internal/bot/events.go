package bot

import (
	"fmt"
	"runtime/debug"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/susu3304/creditbot/internal/commands"
)

func (b *Bot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Infof("%s is connected!", event.User.Username)

	// Register commands for all guilds
	for _, guild := range event.Guilds {
		if err := b.registerGuildCommands(guild.ID); err != nil {
			log.WithError(err).WithField("guild_id", guild.ID).Error("Failed to register commands")
		}
	}
}

func (b *Bot) onGuildCreate(s *discordgo.Session, event *discordgo.GuildCreate) {
	log.WithFields(log.Fields{"guild": event.Name, "guild_id": event.ID}).Info("Guild available/joined, ensuring commands")
	if err := b.registerGuildCommands(event.ID); err != nil {
		log.WithError(err).WithField("guild_id", event.ID).Error("Failed to register commands")
	}
}

func (b *Bot) registerGuildCommands(guildID string) error {
	cmds := commands.GetCommands()
	// Delete existing commands and register new ones
	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.State.User.ID, guildID, cmds)
	if err != nil {
		return err
	}

	log.WithField("guild_id", guildID).Info("Registered application commands")
	return nil
}

// messageFetcher resolves a message, preferring the state cache.
type messageFetcher interface {
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

func (b *Bot) onMessageReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	defer recoverHandler("message_reaction_add")

	if r.MessageReaction == nil {
		return
	}
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}

	var msg *discordgo.Message
	if s.State != nil {
		msg, _ = s.State.Message(r.ChannelID, r.MessageID)
	}
	b.handleReaction(s, r.MessageReaction, msg)
}

// handleReaction credits the author of the reacted message. cached may be nil,
// in which case the message is fetched through f.
func (b *Bot) handleReaction(f messageFetcher, r *discordgo.MessageReaction, cached *discordgo.Message) bool {
	msg := cached
	if msg == nil {
		var err error
		msg, err = f.ChannelMessage(r.ChannelID, r.MessageID)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"channel_id": r.ChannelID,
				"message_id": r.MessageID,
			}).Warn("Failed to fetch reacted message")
			return false
		}
	}
	if msg.Author == nil || msg.Author.Bot {
		return false
	}

	reactorID := commands.ParseSnowflake(r.UserID)
	authorID := commands.ParseSnowflake(msg.Author.ID)
	messageID := commands.ParseSnowflake(r.MessageID)
	if reactorID == 0 || authorID == 0 || messageID == 0 {
		return false
	}

	return b.ledger.RecordReaction(reactorID, authorID, messageID)
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer recoverHandler("interaction_create")
	b.dispatchInteraction(s, i)
}

func (b *Bot) dispatchInteraction(s commands.Responder, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleApplicationCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handleMessageComponent(s, i)
	}
}

func (b *Bot) handleApplicationCommand(s commands.Responder, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()

	switch data.Name {
	case commands.CommandCredits:
		commands.HandleCredits(s, i, b.ledger, b.redeemer)
	case commands.CommandLeaderboard:
		commands.HandleLeaderboard(s, i, b.ledger)
	}
}

func (b *Bot) handleMessageComponent(s commands.Responder, i *discordgo.InteractionCreate) {
	switch i.MessageComponentData().CustomID {
	case commands.CreditsMenuID:
		commands.HandleCreditsMenu(s, i, b.ledger, b.redeemer)
	}
}

func recoverHandler(event string) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"event": event,
			"panic": fmt.Sprintf("%v", r),
			"stack": string(debug.Stack()),
		}).Error("Panic in event handler, recovered")
	}
}
