package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/bank"
)

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "Inspect and check item banks",
}

var banksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the banks available to games",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openBanks()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-16s  %-26s  %-6s  %5s  %s\n", "Topic", "Name", "Op", "Items", "Source")
		for _, topic := range reg.Topics() {
			e, _ := reg.Lookup(topic)
			fmt.Fprintf(out, "%-16s  %-26s  %-6s  %5d  %s\n",
				topic, truncate(e.Bank.Name, 26), e.Bank.Operation, e.Bank.Len(), e.Source)
		}
		return nil
	},
}

var banksShowCmd = &cobra.Command{
	Use:   "show <topic>",
	Short: "Print every item of a bank in serving order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openBanks()
		if err != nil {
			return err
		}
		e, ok := reg.Lookup(args[0])
		if !ok {
			return fmt.Errorf("%w: %q", bank.ErrUnknownTopic, args[0])
		}

		out := cmd.OutOrStdout()
		b := e.Bank
		fmt.Fprintf(out, "%s (%s, %d items, %s)\n\n", b.Name, b.Operation, b.Len(), e.Source)
		for i, item := range b.Items() {
			fmt.Fprintf(out, "%4d  %-16s  %d\n", i+1, b.Text(item), item.Answer)
		}
		return nil
	},
}

var banksValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check bank files for schema, arithmetic and duplicate errors",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			b, err := bank.Load(path)
			if err != nil {
				failed++
				fmt.Fprintf(out, "✗ %s\n", path)
				var verr *bank.ValidationError
				if errors.As(err, &verr) {
					for _, p := range verr.Problems {
						fmt.Fprintf(out, "    %s\n", p)
					}
				} else {
					fmt.Fprintf(out, "    %v\n", err)
				}
				continue
			}
			fmt.Fprintf(out, "✓ %s: %s, %d items\n", path, b.Topic, b.Len())
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d bank files invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	banksCmd.AddCommand(banksListCmd)
	banksCmd.AddCommand(banksShowCmd)
	banksCmd.AddCommand(banksValidateCmd)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
