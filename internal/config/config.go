// Package config loads settings from an optional config file, a .env file
// and MATHIZ_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/mathiz-arcade/internal/bank"
	"github.com/abhisek/mathiz-arcade/internal/llm"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

// EnvPrefix is prepended to every environment key: server.addr is read
// from MATHIZ_SERVER_ADDR.
const EnvPrefix = "MATHIZ"

// Config is the full application configuration.
type Config struct {
	// DB is the SQLite path. Empty means the XDG default.
	DB string `mapstructure:"db"`

	// BankDir holds bank files that override or extend the built-ins.
	BankDir string `mapstructure:"bank_dir"`

	Log    LogConfig    `mapstructure:"log"`
	Play   PlayConfig   `mapstructure:"play"`
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`

	// File is the config file that was read, empty when none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PlayConfig struct {
	// Shuffle permutes each bank with Seed before play. A zero seed picks
	// a fresh order every time.
	Shuffle bool   `mapstructure:"shuffle"`
	Seed    uint64 `mapstructure:"seed"`
}

// Prepare returns b shuffled when Shuffle is set.
func (p PlayConfig) Prepare(b bank.Bank) bank.Bank {
	if !p.Shuffle {
		return b
	}
	seed := p.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return b.Shuffle(seed)
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")
	v.SetDefault("bank_dir", defaultBankDir())

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("play.shuffle", false)
	v.SetDefault("play.seed", 1)

	v.SetDefault("server.addr", "127.0.0.1:8787")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_attempts", 3)
}

// Load reads configuration. A non-empty path must exist; otherwise
// config.{yaml,json,toml} is looked up in the working directory and the
// XDG config directory, and a missing file is not an error. A .env in the
// working directory is loaded first and never overrides variables that
// are already set.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	return &cfg, nil
}

// DBPath resolves the database location: the --db flag, then db from the
// config or MATHIZ_DB, then the XDG data directory.
func (c *Config) DBPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if c.DB != "" {
		return c.DB, nil
	}
	return store.DefaultDBPath()
}

// LLMConfig builds the provider configuration. Values from the config
// file or MATHIZ_LLM_* win; without a provider set, the first backend with
// a conventional API key variable is used. It reports false when no
// provider is configured at all.
func (c *Config) LLMConfig() (llm.Config, bool) {
	cfg := llm.DefaultConfig()
	found := false
	if c.LLM.Provider != "" {
		cfg.Provider = c.LLM.Provider
		found = true
	} else if d, ok := llm.DiscoverConfig(); ok {
		cfg, found = d, true
	}

	if c.LLM.Model != "" {
		cfg.Model = c.LLM.Model
	}
	if c.LLM.BaseURL != "" {
		cfg.BaseURL = c.LLM.BaseURL
	}
	if c.LLM.APIKey != "" {
		cfg.APIKey = c.LLM.APIKey
	}
	if cfg.APIKey == "" {
		if b, ok := llm.LookupBackend(cfg.Provider); ok && b.KeyEnv != "" {
			cfg.APIKey = os.Getenv(b.KeyEnv)
		}
	}
	if c.LLM.Timeout > 0 {
		cfg.Timeout = c.LLM.Timeout
	}
	if c.LLM.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = c.LLM.MaxAttempts
	}
	return cfg, found
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mathiz"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "mathiz"), nil
}

func defaultBankDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mathiz", "banks")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "banks")
	}
	return filepath.Join(home, ".local", "share", "mathiz", "banks")
}
