package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/susu3304/creditbot/internal/ledger"
	"github.com/susu3304/creditbot/internal/redeem"
)

// Balances is the read side of the credit ledger.
type Balances interface {
	GetBalance(userID uint64) int
	Top(n int) []ledger.Standing
}

type Redeemer interface {
	Redeem(ctx context.Context, userID uint64, reward string) redeem.Result
	Price() int
}

// HandleCredits answers /credits with the caller's balance and the rewards menu.
func HandleCredits(s Responder, i *discordgo.InteractionCreate, balances Balances, r Redeemer) {
	userID := InteractionUserID(i)
	if userID == 0 {
		respondEphemeral(s, i, "Could not identify you.")
		return
	}

	balance := balances.GetBalance(userID)
	respond(s, i, &discordgo.InteractionResponseData{
		Content:    balanceText(balance),
		Flags:      discordgo.MessageFlagsEphemeral,
		Components: creditsMenu(r.Price()),
	})
}

func creditsMenu(price int) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					MenuType:    discordgo.StringSelectMenu,
					CustomID:    CreditsMenuID,
					Placeholder: "What would you like to do?",
					Options: []discordgo.SelectMenuOption{
						{
							Label:       "Check balance",
							Value:       menuBalance,
							Description: "Show how many social credits you have",
						},
						{
							Label:       fmt.Sprintf("Redeem %s", redeem.DisplayName(redeem.RewardRecuerdate)),
							Value:       menuRedeemRecuerdate,
							Description: fmt.Sprintf("Costs %d %s", price, plural(price, "credit", "credits")),
						},
					},
				},
			},
		},
	}
}

// HandleCreditsMenu handles a selection made in the credits menu.
func HandleCreditsMenu(s Responder, i *discordgo.InteractionCreate, balances Balances, r Redeemer) {
	data := i.MessageComponentData()
	if len(data.Values) == 0 {
		respondEphemeral(s, i, "Nothing selected.")
		return
	}

	userID := InteractionUserID(i)
	if userID == 0 {
		respondEphemeral(s, i, "Could not identify you.")
		return
	}

	switch data.Values[0] {
	case menuBalance:
		respondEphemeral(s, i, balanceText(balances.GetBalance(userID)))
	case menuRedeemRecuerdate:
		res := r.Redeem(context.Background(), userID, redeem.RewardRecuerdate)
		respondEphemeral(s, i, RedemptionText(res))
	default:
		log.WithField("value", data.Values[0]).Warn("Unknown credits menu option")
		respondEphemeral(s, i, "Unknown option.")
	}
}

// RedemptionText is the message shown to the user after a redemption attempt.
func RedemptionText(res redeem.Result) string {
	name := redeem.DisplayName(res.Reward)
	switch res.Outcome {
	case redeem.OutcomeRedeemed:
		return fmt.Sprintf("You redeemed a %s for %d %s. Remaining balance: %d.",
			name, res.Price, plural(res.Price, "credit", "credits"), res.Balance)
	case redeem.OutcomeInsufficient:
		return fmt.Sprintf("A %s costs %d %s. You have %d, so you need %d more.",
			name, res.Price, plural(res.Price, "credit", "credits"), res.Balance, res.Shortfall)
	default:
		return "Something went wrong while redeeming. Your credits were not spent, please try again later."
	}
}

func balanceText(balance int) string {
	return fmt.Sprintf("You have %d social %s.", balance, plural(balance, "credit", "credits"))
}
