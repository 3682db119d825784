package cli

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the creditbot command tree. Without a subcommand
// it runs the bot.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "creditbot",
		Short:         "Discord bot that rewards reactions with social credits",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewBalancesCommand())
	cmd.AddCommand(NewRewardsCommand())

	return cmd
}

func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}
