package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Inspect recorded rounds",
}

var roundsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent rounds, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		gameID, _ := cmd.Flags().GetString("game")
		if gameID != "" {
			g, err := games.Lookup(gameID)
			if err != nil {
				return err
			}
			gameID = g.ID
		}

		st, err := openStore(cmd, env.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		rounds, err := st.ListRounds(cmd.Context(), store.RoundQuery{
			QueryOpts: store.QueryOpts{Limit: limit},
			GameID:    gameID,
		})
		if err != nil {
			return fmt.Errorf("list rounds: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(rounds) == 0 {
			fmt.Fprintln(out, "No rounds recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-8s  %-10s  %-7s  %-3s  %-10s  %7s  %-16s\n",
			"ID", "Game", "Attempt", "Set", "Result", "Correct", "Started")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, r := range rounds {
			fmt.Fprintf(out, "%-8s  %-10s  %-7d  %-3d  %-10s  %3d/%-3d  %-16s\n",
				shortID(r.ID), r.GameID, r.Attempt, r.SetIndex, result(&r),
				r.Correct, r.RequiredCorrect, humanize.Time(r.StartedAt))
		}
		return nil
	},
}

var roundsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one round with every answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd, env.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		id, err := resolveRoundID(cmd, st, args[0])
		if err != nil {
			return err
		}
		r, err := st.GetRound(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get round: %w", err)
		}
		printRound(cmd.OutOrStdout(), r)
		return nil
	},
}

func init() {
	roundsListCmd.Flags().IntP("limit", "n", 20, "Number of rounds to show")
	roundsListCmd.Flags().StringP("game", "g", "", "Only rounds of this game")

	roundsCmd.AddCommand(roundsListCmd)
	roundsCmd.AddCommand(roundsShowCmd)
}

// resolveRoundID expands the short ID printed by rounds list.
func resolveRoundID(cmd *cobra.Command, st *store.Store, prefix string) (string, error) {
	if len(prefix) >= 36 {
		return prefix, nil
	}
	rounds, err := st.ListRounds(cmd.Context(), store.RoundQuery{})
	if err != nil {
		return "", fmt.Errorf("list rounds: %w", err)
	}
	var match string
	for _, r := range rounds {
		if strings.HasPrefix(r.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("round ID %q is ambiguous", prefix)
			}
			match = r.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, prefix)
	}
	return match, nil
}

func printRound(w io.Writer, r *store.RoundDetail) {
	fmt.Fprintf(w, "Round:     %s\n", r.ID)
	fmt.Fprintf(w, "Game:      %s (%s)\n", r.GameID, r.Topic)
	fmt.Fprintf(w, "Attempt:   %d, set %d", r.Attempt, r.SetIndex)
	if r.PlayAgain {
		fmt.Fprint(w, ", play again")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Started:   %s (%s)\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(r.StartedAt))
	if r.EndedAt != nil {
		fmt.Fprintf(w, "Duration:  %s\n", r.EndedAt.Sub(r.StartedAt).Round(time.Second))
	}
	fmt.Fprintf(w, "Result:    %s, %d/%d correct, %d answered of %d, best streak %d, %d deferred\n",
		result(&r.Round), r.Correct, r.RequiredCorrect, r.TotalAnswered, r.MaxQuestions, r.BestStreak, r.Deferred)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%3s  %-16s  %-8s  %-2s  %7s\n", "#", "Question", "Given", "", "Time")
	fmt.Fprintln(w, strings.Repeat("─", 44))
	for _, a := range r.Answers {
		mark := "✓"
		if !a.Correct {
			mark = "✗"
		}
		prompt := a.Prompt
		if a.Retry {
			prompt += " ↻"
		}
		fmt.Fprintf(w, "%3d  %-16s  %-8s  %-2s  %6.1fs\n",
			a.Number, prompt, a.Given, mark, float64(a.ResponseMs)/1000)
	}
}

func result(r *store.Round) string {
	switch {
	case r.EndedAt == nil:
		return "running"
	case r.Successful:
		return "cleared"
	default:
		return r.Reason
	}
}

func shortID(id string) string {
	return truncate(id, 8)
}
