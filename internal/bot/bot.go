package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/susu3304/creditbot/internal/commands"
	"github.com/susu3304/creditbot/internal/ledger"
)

// Ledger is what the gateway needs from the credit ledger.
type Ledger interface {
	commands.Balances
	RecordReaction(reactorID, authorID, messageID uint64) bool
}

type Bot struct {
	session  *discordgo.Session
	ledger   Ledger
	redeemer commands.Redeemer
}

var _ Ledger = (*ledger.Ledger)(nil)

func New(token string, l Ledger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	bot := &Bot{
		session: session,
		ledger:  l,
	}

	// Register event handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onGuildCreate)
	session.AddHandler(bot.onMessageReactionAdd)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions
	session.State.MaxMessageCount = 1000

	return bot, nil
}

// SetRedeemer wires the redemption flow. It must be called before Start.
func (b *Bot) SetRedeemer(r commands.Redeemer) {
	b.redeemer = r
}

// Notifier returns a Notifier posting through this bot's session.
func (b *Bot) Notifier() *Notifier {
	return NewNotifier(b.session)
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	log.Info("Discord bot is running")
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}
