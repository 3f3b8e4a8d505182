package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/bankgen"
	"github.com/abhisek/mathiz-arcade/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Author a new item bank with a language model",
	Long: "Generate asks the configured model for arithmetic items, drops wrong,\n" +
		"out-of-range and duplicate ones, and saves the bank to the bank directory\n" +
		"where it overrides the built-in bank of the same topic.\n\n" +
		"Use --provider mock to build a bank offline.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		f := cmd.Flags()

		req := bankgen.Request{Topic: args[0]}
		req.Name, _ = f.GetString("name")
		req.Description, _ = f.GetString("description")
		req.Count, _ = f.GetInt("count")
		req.Min, _ = f.GetInt("min")
		req.Max, _ = f.GetInt("max")

		reg, err := openBanks()
		if err != nil {
			return err
		}
		existing, hasExisting := reg.Lookup(req.Topic)

		opName, _ := f.GetString("op")
		switch {
		case opName != "":
			if req.Operation, err = bank.ParseOperation(opName); err != nil {
				return err
			}
		case hasExisting:
			req.Operation = existing.Bank.Operation
		default:
			return fmt.Errorf("topic %q is new: --op is required", req.Topic)
		}

		extend, _ := f.GetBool("extend")
		if extend && hasExisting {
			req.Avoid = existing.Bank.Items()
		}

		if p, _ := f.GetString("provider"); p != "" {
			env.cfg.LLM.Provider = p
		}
		llmCfg, ok := env.cfg.LLMConfig()
		if !ok {
			return errors.New("no model provider configured: set MATHIZ_LLM_PROVIDER or a provider API key, or pass --provider mock")
		}

		st, err := openStore(cmd, env.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		provider, err := llm.NewProvider(ctx, llmCfg, st, env.logger)
		if err != nil {
			return err
		}
		if mock, ok := llm.Unwrap(provider).(*llm.MockProvider); ok {
			seed, _ := f.GetUint64("seed")
			mock.Handler = bankgen.Offline(req, seed)
		}

		cfg := bankgen.DefaultConfig()
		cfg.Rounds, _ = f.GetInt("rounds")
		b, err := bankgen.New(provider, cfg, env.logger).Generate(ctx, req)
		if err != nil {
			return err
		}
		if extend && hasExisting {
			b = bank.New(b.Topic, existing.Bank.Name, b.Operation, append(existing.Bank.Items(), b.Items()...))
		}

		out, _ := f.GetString("out")
		if out == "" {
			out = filepath.Join(env.cfg.BankDir, req.Topic+".yaml")
		}
		if err := bank.Save(out, b); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d %s items to %s (model %s)\n",
			b.Len(), b.Operation, out, provider.ModelID())
		return nil
	},
}

func init() {
	f := generateCmd.Flags()
	f.String("op", "", "Operation: add, sub, mul, div or factor (default: the existing bank's)")
	f.String("name", "", "Display name of the bank")
	f.String("description", "", "Extra guidance for the model, e.g. \"doubles and near doubles\"")
	f.Int("count", 40, "Number of items wanted")
	f.Int("min", 1, "Smallest operand")
	f.Int("max", 12, "Largest operand")
	f.Int("rounds", bankgen.DefaultConfig().Rounds, "Model requests allowed to reach --count")
	f.Bool("extend", false, "Add to the existing bank instead of replacing it")
	f.String("provider", "", "Model provider, overriding config (anthropic, openai, gemini, openrouter, mock)")
	f.Uint64("seed", 1, "Seed for the mock provider")
	f.String("out", "", "Output file (default: <bank_dir>/<topic>.yaml)")
}
