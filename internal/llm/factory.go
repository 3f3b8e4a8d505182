package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/mathiz-arcade/internal/store"
)

// NewProvider builds the configured backend and wraps it so each call is
// bounded by cfg.Timeout, retried, and every attempt is logged:
// caller -> timeout -> retry -> logging -> backend.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case Anthropic:
		base, err = NewAnthropicProvider(cfg)
	case OpenAI:
		base, err = NewOpenAIProvider(cfg)
	case Gemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case OpenRouter:
		base, err = NewOpenRouterProvider(cfg)
	case Mock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	var p Provider = WithLogging(base, cfg.Provider, repo, logger)
	p = WithRetry(p, cfg.Retry, logger)
	if cfg.Timeout > 0 {
		p = &timeoutProvider{inner: p, timeout: cfg.Timeout}
	}
	return p, nil
}

type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *timeoutProvider) ModelID() string { return t.inner.ModelID() }

// Unwrap returns the backend under the decorators NewProvider adds.
func Unwrap(p Provider) Provider {
	for {
		switch v := p.(type) {
		case *timeoutProvider:
			p = v.inner
		case *RetryProvider:
			p = v.inner
		case *LoggingProvider:
			p = v.inner
		default:
			return p
		}
	}
}
