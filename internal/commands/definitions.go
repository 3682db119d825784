package commands

import "github.com/bwmarrin/discordgo"

const (
	CommandCredits     = "credits"
	CommandLeaderboard = "leaderboard"

	CreditsMenuID = "credits_menu"

	menuBalance          = "balance"
	menuRedeemRecuerdate = "redeem_recuerdate"
)

func GetCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:         CommandCredits,
			Description:  "Check your social credits and redeem rewards",
			DMPermission: boolPtr(false),
		},
		{
			Name:         CommandLeaderboard,
			Description:  "Show the users with the most social credits",
			DMPermission: boolPtr(false),
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: "How many users to show (default 10)",
					Required:    false,
					MinValue:    floatPtr(1),
					MaxValue:    25,
				},
			},
		},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func floatPtr(f float64) *float64 {
	return &f
}
