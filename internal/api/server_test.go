package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathiz-arcade/internal/logging"
	"github.com/abhisek/mathiz-arcade/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	started := time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)
	require.NoError(t, st.AppendRoundStart(ctx, store.RoundStartData{
		RoundID: "r1", GameID: "racing", Topic: "addition", Attempt: 1,
		SetIndex: 1, RequiredCorrect: 2, MaxQuestions: 3, StartedAt: started,
	}))
	answers := []store.AnswerEventData{
		{RoundID: "r1", Number: 1, ItemKey: "1,1=2", Operand1: 1, Operand2: 1, Expected: 2, Given: "3", Correct: false},
		{RoundID: "r1", Number: 2, ItemKey: "1,2=3", Operand1: 1, Operand2: 2, Expected: 3, Given: "3", Correct: true},
		{RoundID: "r1", Number: 3, ItemKey: "1,1=2", Operand1: 1, Operand2: 1, Expected: 2, Given: "2", Correct: true, Retry: true},
	}
	for _, a := range answers {
		a.AnsweredAt = started.Add(time.Duration(a.Number) * time.Second)
		require.NoError(t, st.AppendAnswer(ctx, a))
	}
	require.NoError(t, st.AppendRoundEnd(ctx, store.RoundEndData{
		RoundID: "r1", TotalAnswered: 3, Correct: 2, Incorrect: 1,
		Reason: "succeeded", Successful: true, BestStreak: 2, EndedAt: started.Add(5 * time.Second),
	}))
	require.NoError(t, st.AppendRoundStart(ctx, store.RoundStartData{
		RoundID: "r2", GameID: "jumping", Topic: "subtraction", Attempt: 1,
		SetIndex: 1, RequiredCorrect: 8, MaxQuestions: 12, StartedAt: started.Add(time.Minute),
	}))
	require.NoError(t, st.AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "bank-gen", Success: true, RequestBody: "secret prompt",
	}))
	return st
}

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	h.ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestHealthAndGames(t *testing.T) {
	h := New(seededStore(t), Options{}).Handler()

	var health map[string]string
	assert.Equal(t, http.StatusOK, get(t, h, "/api/health", &health))
	assert.Equal(t, "ok", health["status"])

	var gs []map[string]any
	assert.Equal(t, http.StatusOK, get(t, h, "/api/games", &gs))
	require.NotEmpty(t, gs)
	assert.Equal(t, "racing", gs[0]["id"])
	assert.EqualValues(t, 14, gs[0]["max_questions"])
}

func TestListRounds(t *testing.T) {
	h := New(seededStore(t), Options{}).Handler()

	var rounds []store.Round
	require.Equal(t, http.StatusOK, get(t, h, "/api/rounds", &rounds))
	require.Len(t, rounds, 2)
	assert.Equal(t, "r2", rounds[0].ID, "newest first")
	assert.Nil(t, rounds[0].EndedAt)

	rounds = nil
	require.Equal(t, http.StatusOK, get(t, h, "/api/rounds?game=Racing", &rounds))
	require.Len(t, rounds, 1)
	assert.Equal(t, "succeeded", rounds[0].Reason)

	rounds = nil
	require.Equal(t, http.StatusOK, get(t, h, "/api/rounds?limit=1", &rounds))
	assert.Len(t, rounds, 1)

	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/rounds?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/rounds?limit=-2", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/rounds?game=pinball", nil))
}

func TestGetRound(t *testing.T) {
	h := New(seededStore(t), Options{}).Handler()

	var detail store.RoundDetail
	require.Equal(t, http.StatusOK, get(t, h, "/api/rounds/r1", &detail))
	assert.Equal(t, "racing", detail.GameID)
	require.Len(t, detail.Answers, 3)
	assert.True(t, detail.Answers[2].Retry)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/rounds/missing", nil))
}

func TestStats(t *testing.T) {
	h := New(seededStore(t), Options{}).Handler()

	var stats []store.GameStat
	require.Equal(t, http.StatusOK, get(t, h, "/api/stats", &stats))
	require.Len(t, stats, 2)

	var missed []store.MissedItem
	require.Equal(t, http.StatusOK, get(t, h, "/api/stats/missed?game=racing", &missed))
	require.Len(t, missed, 1)
	assert.Equal(t, "1,1=2", missed[0].ItemKey)
	assert.Equal(t, 1, missed[0].Misses)
	assert.Equal(t, 2, missed[0].Attempts)

	missed = nil
	require.Equal(t, http.StatusOK, get(t, h, "/api/stats/missed?game=jumping", &missed))
	assert.NotNil(t, missed)
	assert.Empty(t, missed)
}

func TestLLMRequestsHideBodies(t *testing.T) {
	h := New(seededStore(t), Options{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/llm/requests", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"purpose":"bank-gen"`)
	assert.NotContains(t, rec.Body.String(), "secret prompt")
}

func TestCORS(t *testing.T) {
	h := New(seededStore(t), Options{CORSOrigins: []string{"http://localhost:5173"}}).Handler()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := New(seededStore(t), Options{}).Handler()
	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/nope", nil))
}

type brokenRepo struct{ store.ReadRepo }

func (brokenRepo) GameStats(context.Context) ([]store.GameStat, error) {
	return nil, errors.New("database is locked")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	h := New(brokenRepo{}, Options{}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "locked")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := New(seededStore(t), Options{ShutdownTimeout: time.Second})
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
