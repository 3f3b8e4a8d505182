package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	Anthropic  = "anthropic"
	OpenAI     = "openai"
	Gemini     = "gemini"
	OpenRouter = "openrouter"
	Mock       = "mock"
)

// Backend describes one supported provider.
type Backend struct {
	Name         string
	DefaultModel string

	// KeyEnv is the conventional API key variable for the provider, empty
	// when no key is needed.
	KeyEnv string
}

// Backends lists the supported providers in discovery order.
var Backends = []Backend{
	{Name: Gemini, DefaultModel: "gemini-flash", KeyEnv: "GEMINI_API_KEY"},
	{Name: OpenAI, DefaultModel: "gpt-4o-mini", KeyEnv: "OPENAI_API_KEY"},
	{Name: Anthropic, DefaultModel: "claude-haiku", KeyEnv: "ANTHROPIC_API_KEY"},
	{Name: OpenRouter, DefaultModel: "google/gemini-2.0-flash-001", KeyEnv: "OPENROUTER_API_KEY"},
	{Name: Mock, DefaultModel: "mock"},
}

// LookupBackend finds a backend by name.
func LookupBackend(name string) (Backend, bool) {
	for _, b := range Backends {
		if b.Name == name {
			return b, true
		}
	}
	return Backend{}, false
}

// Config selects and configures one provider.
type Config struct {
	Provider string

	// Model is an alias or full model ID. Empty means the backend default.
	Model string

	APIKey string

	// BaseURL overrides the API endpoint for OpenAI-compatible backends.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration
}

// RetryConfig controls backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns the anthropic backend with default retries.
func DefaultConfig() Config {
	return Config{
		Provider: Anthropic,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv reads MATHIZ_LLM_PROVIDER, MATHIZ_LLM_MODEL,
// MATHIZ_LLM_API_KEY and MATHIZ_LLM_BASE_URL over the defaults. Without
// MATHIZ_LLM_API_KEY the provider's conventional key variable is used.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("MATHIZ_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	cfg.Model = os.Getenv("MATHIZ_LLM_MODEL")
	cfg.BaseURL = os.Getenv("MATHIZ_LLM_BASE_URL")
	cfg.APIKey = os.Getenv("MATHIZ_LLM_API_KEY")
	if cfg.APIKey == "" {
		if b, ok := LookupBackend(cfg.Provider); ok && b.KeyEnv != "" {
			cfg.APIKey = os.Getenv(b.KeyEnv)
		}
	}
	return cfg
}

// DiscoverConfig returns ConfigFromEnv when MATHIZ_LLM_PROVIDER is set.
// Otherwise it picks the first backend whose conventional key variable is
// set. It reports false when nothing is configured.
func DiscoverConfig() (Config, bool) {
	if os.Getenv("MATHIZ_LLM_PROVIDER") != "" {
		return ConfigFromEnv(), true
	}
	for _, b := range Backends {
		if b.KeyEnv == "" {
			continue
		}
		if k := os.Getenv(b.KeyEnv); k != "" {
			cfg := ConfigFromEnv()
			cfg.Provider = b.Name
			cfg.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// ModelName returns the configured model or the backend default.
func (c Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	if b, ok := LookupBackend(c.Provider); ok {
		return b.DefaultModel
	}
	return ""
}

// ModelID returns ModelName with backend aliases expanded to the model ID
// sent to the API.
func (c Config) ModelID() string {
	name := c.ModelName()
	switch c.Provider {
	case Anthropic:
		return resolveModel(name, anthropicAliases)
	case Gemini:
		return resolveModel(name, geminiAliases)
	}
	return name
}

// Validate checks the provider is known and has a key when it needs one.
func (c Config) Validate() error {
	b, ok := LookupBackend(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if b.KeyEnv != "" && c.APIKey == "" {
		return fmt.Errorf("an API key is required for the %s provider (set MATHIZ_LLM_API_KEY or %s)", b.Name, b.KeyEnv)
	}
	return nil
}
