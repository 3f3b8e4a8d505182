package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/mathiz-arcade/internal/logging"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestLoggingRecordsRequests(t *testing.T) {
	st := openStore(t)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"ok":true}`), Usage: Usage{InputTokens: 12, OutputTokens: 4}},
		MockResponse{Err: down},
	)
	var buf bytes.Buffer
	lp := WithLogging(mock, Mock, st, logging.New(logging.Options{Output: &buf}))

	tick := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	lp.now = func() time.Time {
		tick = tick.Add(250 * time.Millisecond)
		return tick
	}

	ctx := WithPurpose(context.Background(), PurposeBankGen)
	req := UserPrompt("be brief", "make items")
	req.Schema = &Schema{Name: "log-probe", Definition: map[string]any{"type": "object"}}

	if _, err := lp.Generate(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := lp.Generate(ctx, req); err == nil {
		t.Fatal("expected the queued error")
	}

	events, err := st.QueryLLMEvents(context.Background(), store.QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}

	// Newest first.
	failed, ok := events[0], events[1]
	if failed.Success || !strings.Contains(failed.ErrorMessage, "down") {
		t.Fatalf("failed event = %+v", failed.LLMRequestEventData)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.OutputTokens != 4 || ok.LatencyMs != 250 {
		t.Fatalf("ok event = %+v", ok.LLMRequestEventData)
	}
	if ok.Purpose != "bank-gen" || ok.Provider != "mock" || ok.ResponseBody != `{"ok":true}` {
		t.Fatalf("ok event = %+v", ok.LLMRequestEventData)
	}
	for _, want := range []string{"[system]\nbe brief", "[user]\nmake items", "[schema log-probe]"} {
		if !strings.Contains(ok.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, ok.RequestBody)
		}
	}

	if !strings.Contains(buf.String(), "model request failed") {
		t.Errorf("failure not logged: %s", buf.String())
	}
}

type failingRepo struct{ store.EventRepo }

func (failingRepo) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return errors.New("disk full")
}

func TestLoggingSurvivesRecorderFailure(t *testing.T) {
	var buf bytes.Buffer
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	lp := WithLogging(mock, Mock, failingRepo{}, logging.New(logging.Options{Output: &buf}))

	if _, err := lp.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("recorder failures must not fail the request: %v", err)
	}
	if !strings.Contains(buf.String(), "disk full") {
		t.Fatalf("recorder failure not logged: %s", buf.String())
	}
}
