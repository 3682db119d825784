package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const defaultLeaderboardSize = 10

func HandleLeaderboard(s Responder, i *discordgo.InteractionCreate, balances Balances) {
	limit := defaultLeaderboardSize
	if v := getIntOption(i.ApplicationCommandData().Options, "limit"); v != nil && *v > 0 {
		limit = int(*v)
	}

	top := balances.Top(limit)
	if len(top) == 0 {
		respond(s, i, &discordgo.InteractionResponseData{Content: "Nobody has earned any social credits yet."})
		return
	}

	var b strings.Builder
	b.WriteString("**Social credit leaderboard**\n")
	for n, st := range top {
		fmt.Fprintf(&b, "%d. <@%d>: %d\n", n+1, st.UserID, st.Balance)
	}

	respond(s, i, &discordgo.InteractionResponseData{
		Content:         b.String(),
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	})
}
