package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/llm"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect model providers and recorded model requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent model requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := openStore(cmd, env.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		events, err := st.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No model requests recorded.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-10s  %-28s  %6s  %6s  %7s  %9s  %s\n",
			"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "Cost", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 108))

		var total float64
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			cost := "?"
			if p, found := llm.PriceFor(e.Model); found {
				c := p.Cost(llm.Usage{InputTokens: e.InputTokens, OutputTokens: e.OutputTokens})
				total += c
				cost = formatCost(c)
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-10s  %-28s  %6s  %6s  %7d  %9s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				humanize.Comma(int64(e.InputTokens)),
				humanize.Comma(int64(e.OutputTokens)),
				e.LatencyMs,
				cost,
				ok,
			)
		}
		fmt.Fprintln(out, strings.Repeat("─", 108))
		fmt.Fprintf(out, "Estimated total: %s\n", formatCost(total))
		return nil
	},
}

var llmProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported providers and which one is configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		active, configured := env.cfg.LLMConfig()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-2s %-11s  %-28s  %-20s  %s\n", "", "Provider", "Default model", "Key variable", "Price in/out per 1M")
		for _, b := range llm.Backends {
			mark := " "
			if configured && active.Provider == b.Name {
				mark = "*"
			}
			key := b.KeyEnv
			if key == "" {
				key = "-"
			}
			price := "-"
			if p, ok := llm.PriceFor(llm.Config{Provider: b.Name}.ModelID()); ok {
				price = fmt.Sprintf("$%.2f / $%.2f", p.Input, p.Output)
			}
			fmt.Fprintf(out, "%-2s %-11s  %-28s  %-20s  %s\n", mark, b.Name, b.DefaultModel, key, price)
		}

		if !configured {
			fmt.Fprintln(out, "\nNo provider configured. Set MATHIZ_LLM_PROVIDER or one of the key variables.")
			return nil
		}
		fmt.Fprintf(out, "\nUsing %s with model %s\n", active.Provider, active.ModelID())
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. bank-gen)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmProvidersCmd)
}
