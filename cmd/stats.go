package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-game results and the most missed questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		missedLimit, _ := cmd.Flags().GetInt("missed")

		st, err := openStore(cmd, env.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		stats, err := st.GameStats(ctx)
		if err != nil {
			return fmt.Errorf("game stats: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(out, "No rounds recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-10s  %6s  %7s  %7s  %7s  %8s  %s\n",
			"Game", "Rounds", "Ended", "Cleared", "Answers", "Accuracy", "Last played")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, g := range stats {
			fmt.Fprintf(out, "%-10s  %6d  %7d  %7d  %7s  %7.0f%%  %s\n",
				g.GameID, g.Rounds, g.Completed, g.Successful, humanize.Comma(int64(g.Answers)),
				g.Accuracy*100, humanize.Time(g.LastPlayed))
		}

		missed, err := st.MissedItems(ctx, "", missedLimit)
		if err != nil {
			return fmt.Errorf("missed items: %w", err)
		}
		if len(missed) == 0 {
			return nil
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Most missed")
		fmt.Fprintln(out, strings.Repeat("─", 44))
		for _, m := range missed {
			fmt.Fprintf(out, "%-10s  %-16s  %d of %d wrong\n", m.GameID, m.Prompt, m.Misses, m.Attempts)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("missed", 10, "Number of most-missed questions to list")
}
