package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/games"
	"github.com/abhisek/mathiz-arcade/internal/round"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <game>",
	Short: "Play a game with a simulated player and print each set",
	Long: "Simulate runs sets of a game with a player that answers correctly with the\n" +
		"given probability. A set with missed items is followed by a play-again round,\n" +
		"otherwise by the next set. Nothing is recorded unless --record is set.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := games.Lookup(args[0])
		if err != nil {
			return err
		}
		accuracy, _ := cmd.Flags().GetFloat64("accuracy")
		seed, _ := cmd.Flags().GetUint64("seed")
		sets, _ := cmd.Flags().GetInt("sets")
		record, _ := cmd.Flags().GetBool("record")
		if accuracy < 0 || accuracy > 1 {
			return fmt.Errorf("accuracy %v outside [0, 1]", accuracy)
		}
		if sets < 1 {
			return fmt.Errorf("sets must be at least 1, got %d", sets)
		}

		banks, err := openBanks()
		if err != nil {
			return err
		}
		b, err := banks.Get(g.Topic)
		if err != nil {
			return err
		}

		opts := []round.Option{round.WithLogger(env.logger)}
		if record {
			st, err := openStore(cmd, env.logger)
			if err != nil {
				return err
			}
			defer st.Close()
			opts = append(opts, round.WithEvents(st))
		}

		ctrl, err := round.New(g, env.cfg.Play.Prepare(b), opts...)
		if err != nil {
			return err
		}
		return simulate(cmd, ctrl, round.Simulated(accuracy, seed), sets)
	},
}

func init() {
	f := simulateCmd.Flags()
	f.Float64("accuracy", 0.8, "Probability the simulated player answers correctly")
	f.Uint64("seed", 1, "Seed for the simulated player")
	f.Int("sets", 3, "Number of rounds to play")
	f.Bool("record", false, "Record the rounds to the database")
}

func simulate(cmd *cobra.Command, ctrl *round.Controller, player round.Responder, sets int) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	printSimHeader(out)
	if err := ctrl.Start(ctx); err != nil {
		return err
	}
	for i := range sets {
		sum, err := ctrl.Run(ctx, player, round.Observer{})
		if err != nil {
			return err
		}
		printSimRow(out, sum)

		if i == sets-1 {
			break
		}
		if sum.CanPlayAgain {
			err = ctrl.PlayAgain(ctx)
		} else {
			err = ctrl.NextSet(ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func printSimHeader(w io.Writer) {
	fmt.Fprintf(w, "%-7s  %-4s  %-10s  %-9s  %8s  %8s  %6s  %8s\n",
		"Attempt", "Set", "Kind", "Reason", "Correct", "Answered", "Streak", "Deferred")
}

func printSimRow(w io.Writer, sum round.Summary) {
	kind := "set"
	if sum.PlayAgain {
		kind = "play-again"
	}
	p := sum.Progress
	fmt.Fprintf(w, "%-7d  %-4d  %-10s  %-9s  %5d/%-2d  %5d/%-2d  %6d  %8d\n",
		sum.Attempt, sum.SetIndex, kind, p.Reason,
		p.CorrectAnswers, p.RequiredCorrect, p.TotalAnswered, p.MaxQuestions,
		sum.BestStreak, p.PlayAgainPool)
}
