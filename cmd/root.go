package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/config"
	"github.com/abhisek/mathiz-arcade/internal/logging"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "mathiz-arcade",
	Short: "Arithmetic mini-games for the terminal",
	Long: "Mathiz Arcade: terminal mini-games that drill arithmetic facts, " +
		"retry missed questions and record every round for the dashboard.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, nil)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides MATHIZ_DB)")
	pf.String("config", "", "Path to config file (default: ./config.* or $XDG_CONFIG_HOME/mathiz/config.*)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.String("log-file", "", "Write logs to this file (the TUI discards logs otherwise)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(banksCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is what setup resolves once per invocation.
var env struct {
	cfg     *config.Config
	logger  *slog.Logger
	logFile io.Closer
}

// setup loads the configuration and builds the logger. Flags override the
// config file and environment.
func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if f, _ := cmd.Flags().GetString("log-format"); f != "" {
		cfg.Log.Format = f
	}
	env.cfg = cfg

	opts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		opts.Output = f
		env.logFile = f
	}
	env.logger = logging.New(opts)
	return nil
}

// tuiLogger is the logger for full-screen mode: stderr would tear the
// display, so logs go to --log-file or nowhere.
func tuiLogger() *slog.Logger {
	if env.logFile != nil {
		return env.logger
	}
	return logging.Discard()
}

// openStore opens the event store at the resolved database path.
func openStore(cmd *cobra.Command, logger *slog.Logger) (*store.Store, error) {
	flag, _ := cmd.Flags().GetString("db")
	dbPath, err := env.cfg.DBPath(flag)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// openBanks builds the registry of built-in banks plus the bank directory.
func openBanks() (*bank.Registry, error) {
	dir := env.cfg.BankDir
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = ""
	}
	reg, err := bank.DefaultRegistry(dir)
	if err != nil {
		return nil, fmt.Errorf("load banks: %w", err)
	}
	return reg, nil
}
