package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/mathiz-arcade/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", logging.Discard())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func startRound(t *testing.T, s *Store, id, game string) {
	t.Helper()
	err := s.AppendRoundStart(context.Background(), RoundStartData{
		RoundID:         id,
		GameID:          game,
		Topic:           "addition",
		Attempt:         1,
		SetIndex:        1,
		RequiredCorrect: 3,
		MaxQuestions:    5,
		StartedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("append round start: %v", err)
	}
}

func answer(t *testing.T, s *Store, roundID string, n, a, b int, correct bool) {
	t.Helper()
	err := s.AppendAnswer(context.Background(), AnswerEventData{
		RoundID:    roundID,
		Number:     n,
		ItemKey:    fmt.Sprintf("%d,%d=%d", a, b, a+b),
		Operand1:   a,
		Operand2:   b,
		Expected:   a + b,
		Given:      "0",
		Correct:    correct,
		ResponseMs: 1200,
	})
	if err != nil {
		t.Fatalf("append answer: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode reports "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := migrate(ctx, s.DB()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	for _, col := range []string{"prompt", "item_key"} {
		ok, err := hasColumn(ctx, s.DB(), "answers", col)
		if err != nil || !ok {
			t.Errorf("answers.%s missing (err=%v)", col, err)
		}
	}
}

func TestFileDatabaseReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arcade.db")

	s, err := Open(path, logging.Discard())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	startRound(t, s, "r1", "racing")
	s.Close()

	s, err = Open(path, logging.Discard())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if _, err := s.GetRound(context.Background(), "r1"); err != nil {
		t.Fatalf("round lost across reopen: %v", err)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != int64(i) {
			t.Errorf("seq = %d, want %d", seq, i)
		}
	}
}

func TestRoundLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	startRound(t, s, "r1", "racing")
	answer(t, s, "r1", 1, 3, 4, false)
	answer(t, s, "r1", 2, 2, 2, true)
	answer(t, s, "r1", 3, 3, 4, true)

	err := s.AppendRoundEnd(ctx, RoundEndData{
		RoundID:       "r1",
		TotalAnswered: 3,
		Correct:       2,
		Incorrect:     1,
		Reason:        "ceiling",
		Deferred:      0,
		BestStreak:    2,
	})
	if err != nil {
		t.Fatalf("append round end: %v", err)
	}

	got, err := s.GetRound(ctx, "r1")
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if got.EndedAt == nil {
		t.Fatal("EndedAt not set")
	}
	if got.Reason != "ceiling" || got.Correct != 2 || got.BestStreak != 2 || got.Successful {
		t.Errorf("round = %+v", got.Round)
	}
	if len(got.Answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(got.Answers))
	}
	if got.Answers[0].Correct || !got.Answers[1].Correct {
		t.Errorf("answer order wrong: %+v", got.Answers)
	}
	if got.Answers[0].Sequence <= got.Sequence {
		t.Errorf("answer sequence %d not after round sequence %d", got.Answers[0].Sequence, got.Sequence)
	}
}

func TestAppendRoundEndUnknown(t *testing.T) {
	s := openTestStore(t)
	err := s.AppendRoundEnd(context.Background(), RoundEndData{RoundID: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAnswerRequiresRound(t *testing.T) {
	s := openTestStore(t)
	err := s.AppendAnswer(context.Background(), AnswerEventData{RoundID: "ghost", Number: 1})
	if err == nil {
		t.Fatal("answer for unknown round accepted; foreign keys not enforced")
	}
}

func TestGetRoundNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.GetRound(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListRounds(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	startRound(t, s, "a", "racing")
	startRound(t, s, "b", "jumping")
	startRound(t, s, "c", "racing")

	all, err := s.ListRounds(ctx, RoundQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c" {
		t.Fatalf("list = %+v, want newest first", all)
	}

	racing, err := s.ListRounds(ctx, RoundQuery{GameID: "racing", QueryOpts: QueryOpts{Limit: 1}})
	if err != nil {
		t.Fatalf("list racing: %v", err)
	}
	if len(racing) != 1 || racing[0].ID != "c" {
		t.Errorf("racing = %+v", racing)
	}

	after, err := s.ListRounds(ctx, RoundQuery{QueryOpts: QueryOpts{After: all[1].Sequence}})
	if err != nil {
		t.Fatalf("list after: %v", err)
	}
	if len(after) != 1 || after[0].ID != "c" {
		t.Errorf("after = %+v", after)
	}
}

func TestListRoundsCombinesFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	startRound(t, s, "a", "racing")
	startRound(t, s, "b", "jumping")
	startRound(t, s, "c", "racing")
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		q    RoundQuery
		want []string
	}{
		{"to start", RoundQuery{QueryOpts: QueryOpts{To: started}}, []string{"c", "b", "a"}},
		{"from later", RoundQuery{QueryOpts: QueryOpts{From: started.Add(time.Hour)}}, nil},
		{"game and before", RoundQuery{GameID: "racing", QueryOpts: QueryOpts{Before: 3}}, []string{"a"}},
		{"game from start", RoundQuery{GameID: "racing", QueryOpts: QueryOpts{From: started}}, []string{"c", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListRounds(ctx, tt.q)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			var ids []string
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			if fmt.Sprint(ids) != fmt.Sprint(tt.want) {
				t.Errorf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestGameStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	startRound(t, s, "a", "racing")
	answer(t, s, "a", 1, 1, 1, true)
	answer(t, s, "a", 2, 1, 2, false)
	if err := s.AppendRoundEnd(ctx, RoundEndData{RoundID: "a", Successful: true, Reason: "succeeded"}); err != nil {
		t.Fatal(err)
	}
	startRound(t, s, "b", "racing")
	answer(t, s, "b", 1, 1, 1, true)
	startRound(t, s, "c", "jumping")

	stats, err := s.GameStats(ctx)
	if err != nil {
		t.Fatalf("game stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats = %+v, want 2 games", stats)
	}

	jumping, racing := stats[0], stats[1]
	if jumping.GameID != "jumping" || jumping.Rounds != 1 || jumping.Answers != 0 {
		t.Errorf("jumping = %+v", jumping)
	}
	if racing.Rounds != 2 || racing.Completed != 1 || racing.Successful != 1 {
		t.Errorf("racing rounds = %+v", racing)
	}
	if racing.Answers != 3 || racing.Correct != 2 {
		t.Errorf("racing answers = %d/%d, want 2/3", racing.Correct, racing.Answers)
	}
	if racing.Accuracy < 0.66 || racing.Accuracy > 0.67 {
		t.Errorf("racing accuracy = %f", racing.Accuracy)
	}
}

func TestMissedItems(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	startRound(t, s, "a", "racing")
	answer(t, s, "a", 1, 3, 4, false)
	answer(t, s, "a", 2, 5, 5, false)
	answer(t, s, "a", 3, 3, 4, false)
	answer(t, s, "a", 4, 2, 2, true)
	startRound(t, s, "b", "jumping")
	answer(t, s, "b", 1, 9, 9, false)

	missed, err := s.MissedItems(ctx, "racing", 0)
	if err != nil {
		t.Fatalf("missed: %v", err)
	}
	if len(missed) != 2 {
		t.Fatalf("missed = %+v, want 2 items", missed)
	}
	if missed[0].ItemKey != "3,4=7" || missed[0].Misses != 2 {
		t.Errorf("top miss = %+v", missed[0])
	}

	all, err := s.MissedItems(ctx, "", 1)
	if err != nil {
		t.Fatalf("missed all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("limit ignored: %+v", all)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, ok := range []bool{true, false} {
		err := s.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "mock",
			Model:        "mock-1",
			Purpose:      "bank-gen",
			InputTokens:  100 + i,
			Success:      ok,
			ErrorMessage: map[bool]string{false: "rate limited"}[ok],
		})
		if err != nil {
			t.Fatalf("append llm %d: %v", i, err)
		}
	}

	events, err := s.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Success || events[0].ErrorMessage != "rate limited" {
		t.Errorf("newest event = %+v", events[0])
	}
	if events[1].Timestamp.IsZero() {
		t.Error("timestamp not stored")
	}

	limited, err := s.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	if err != nil || len(limited) != 1 {
		t.Errorf("limit query = %d events, err %v", len(limited), err)
	}
}
