package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/mathiz-arcade/internal/logging"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

// LoggingProvider records every request to an event repo and logs a
// summary line per call.
type LoggingProvider struct {
	inner    Provider
	provider string
	repo     store.EventRepo
	logger   *slog.Logger
	now      func() time.Time
}

// WithLogging wraps p. provider is the backend name stored with each
// event. A nil repo only logs.
func WithLogging(p Provider, provider string, repo store.EventRepo, logger *slog.Logger) *LoggingProvider {
	return &LoggingProvider{
		inner:    p,
		provider: provider,
		repo:     repo,
		logger:   logging.Component(logger, "llm"),
		now:      time.Now,
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := l.now()
	resp, err := l.inner.Generate(ctx, req)
	latency := l.now().Sub(start)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   latency.Milliseconds(),
		Success:     err == nil,
		RequestBody: renderRequest(req),
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}

	attrs := []any{"provider", data.Provider, "model", data.Model, "purpose", data.Purpose, "latency", latency}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("model request failed", append(attrs, "error", err)...)
	} else {
		if price, ok := PriceFor(data.Model); ok {
			attrs = append(attrs, "cost_usd", price.Cost(resp.Usage))
		}
		l.logger.Info("model request", append(attrs, "input_tokens", data.InputTokens, "output_tokens", data.OutputTokens)...)
	}

	if l.repo != nil {
		if rerr := l.repo.AppendLLMRequest(context.WithoutCancel(ctx), data); rerr != nil {
			l.logger.Warn("failed to record model request", "error", rerr)
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

// renderRequest flattens req into the text stored with the event.
func renderRequest(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
