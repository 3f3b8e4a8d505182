package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/games"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the mini-games",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-10s  %-18s  %-15s  %6s  %5s\n", "ID", "Name", "Topic", "Target", "Tries")
		for _, g := range games.All() {
			fmt.Fprintf(out, "%-10s  %-18s  %-15s  %6d  %5d\n",
				g.ID, g.Name, g.Topic, g.RequiredCorrect, g.MaxQuestions())
		}
		return nil
	},
}
