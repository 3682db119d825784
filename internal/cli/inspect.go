package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/susu3304/creditbot/internal/config"
	"github.com/susu3304/creditbot/internal/ledger"
	"github.com/susu3304/creditbot/internal/store"
)

func NewBalancesCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Print balances from the balances file, highest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := config.LoadFiles()
			if err != nil {
				return err
			}
			records := store.New(files.BalancesPath, files.IgnoredUsersPath, files.RewardsPath)
			return printBalances(cmd.OutOrStdout(), records.LoadBalances(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "only show the top N users (0 = all)")
	return cmd
}

func NewRewardsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rewards",
		Short: "Print the reward log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := config.LoadFiles()
			if err != nil {
				return err
			}
			records := store.New(files.BalancesPath, files.IgnoredUsersPath, files.RewardsPath)
			return printRewards(cmd.OutOrStdout(), records.LoadRewards())
		},
	}
}

func printBalances(out io.Writer, balances map[uint64]int, limit int) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tUSER ID\tCREDITS")
	for n, st := range ledger.Rank(balances, limit) {
		fmt.Fprintf(w, "%d\t%d\t%d\n", n+1, st.UserID, st.Balance)
	}
	return w.Flush()
}

func printRewards(out io.Writer, entries []store.RewardEntry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REWARD\tQUANTITY\tDATE ADDED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\t%s\n", e.RewardType, e.Quantity, e.DateAdded.Format(time.RFC3339))
	}
	return w.Flush()
}
