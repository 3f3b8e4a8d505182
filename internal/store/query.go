package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

// DefaultMissedLimit caps MissedItems when no limit is given.
const DefaultMissedLimit = 10

var roundColumns = []string{
	"id", "sequence", "game_id", "topic", "attempt", "play_again", "set_index",
	"required_correct", "max_questions", "started_at", "ended_at", "total_answered", "correct",
	"incorrect", "reason", "successful", "deferred", "best_streak",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(sc scanner) (Round, error) {
	var (
		r                     Round
		startedAt             string
		endedAt               sql.NullString
		playAgain, successful int
	)
	err := sc.Scan(&r.ID, &r.Sequence, &r.GameID, &r.Topic, &r.Attempt, &playAgain, &r.SetIndex,
		&r.RequiredCorrect, &r.MaxQuestions, &startedAt, &endedAt, &r.TotalAnswered, &r.Correct,
		&r.Incorrect, &r.Reason, &successful, &r.Deferred, &r.BestStreak)
	if err != nil {
		return Round{}, err
	}
	r.PlayAgain = playAgain != 0
	r.Successful = successful != 0
	r.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		t := parseTime(endedAt.String)
		r.EndedAt = &t
	}
	return r, nil
}

// ListRounds returns rounds newest first.
func (s *Store) ListRounds(ctx context.Context, q RoundQuery) ([]Round, error) {
	s.logger.Debug("sql", "op", "select", "table", "rounds", "game", q.GameID)

	sel := selectFrom("rounds", roundColumns...)
	if q.GameID != "" {
		sel.Where(entsql.EQ("game_id", q.GameID))
	}
	query, args := q.apply(sel, "started_at").Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRound returns a round and its answers in the order they were given.
func (s *Store) GetRound(ctx context.Context, id string) (*RoundDetail, error) {
	s.logger.Debug("sql", "op", "select", "table", "rounds", "id", id)

	query, args := selectFrom("rounds", roundColumns...).Where(entsql.EQ("id", id)).Query()
	row := s.db.QueryRowContext(ctx, query, args...)
	r, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("round %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get round: %w", err)
	}

	answers, err := s.roundAnswers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RoundDetail{Round: r, Answers: answers}, nil
}

func (s *Store) roundAnswers(ctx context.Context, roundID string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sequence, number, item_key, operand1, operand2, expected, prompt, given,
			correct, retry, response_ms, answered_at
		 FROM answers WHERE round_id = ? ORDER BY sequence`, roundID)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	answers := []Answer{}
	for rows.Next() {
		var (
			a              Answer
			correct, retry int
			answeredAt     string
		)
		if err := rows.Scan(&a.Sequence, &a.Number, &a.ItemKey, &a.Operand1, &a.Operand2,
			&a.Expected, &a.Prompt, &a.Given, &correct, &retry, &a.ResponseMs, &answeredAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		a.Correct = correct != 0
		a.Retry = retry != 0
		a.AnsweredAt = parseTime(answeredAt)
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// GameStats aggregates rounds and answers per game, ordered by game ID.
func (s *Store) GameStats(ctx context.Context) ([]GameStat, error) {
	s.logger.Debug("sql", "op", "aggregate", "table", "rounds")

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.game_id,
			COUNT(*),
			COALESCE(SUM(CASE WHEN r.ended_at IS NOT NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(r.successful), 0),
			(SELECT COUNT(*) FROM answers a JOIN rounds r2 ON r2.id = a.round_id
				WHERE r2.game_id = r.game_id),
			(SELECT COALESCE(SUM(a.correct), 0) FROM answers a JOIN rounds r2 ON r2.id = a.round_id
				WHERE r2.game_id = r.game_id),
			MAX(r.started_at)
		FROM rounds r
		GROUP BY r.game_id
		ORDER BY r.game_id`)
	if err != nil {
		return nil, fmt.Errorf("game stats: %w", err)
	}
	defer rows.Close()

	var out []GameStat
	for rows.Next() {
		var (
			g    GameStat
			last string
		)
		if err := rows.Scan(&g.GameID, &g.Rounds, &g.Completed, &g.Successful,
			&g.Answers, &g.Correct, &last); err != nil {
			return nil, fmt.Errorf("scan game stat: %w", err)
		}
		if g.Answers > 0 {
			g.Accuracy = float64(g.Correct) / float64(g.Answers)
		}
		g.LastPlayed = parseTime(last)
		out = append(out, g)
	}
	return out, rows.Err()
}

// MissedItems ranks items by wrong answers. An empty gameID covers every game.
func (s *Store) MissedItems(ctx context.Context, gameID string, limit int) ([]MissedItem, error) {
	s.logger.Debug("sql", "op", "aggregate", "table", "answers", "game", gameID)

	if limit <= 0 {
		limit = DefaultMissedLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.game_id, a.item_key, a.operand1, a.operand2, a.expected, MAX(a.prompt),
			SUM(CASE WHEN a.correct = 0 THEN 1 ELSE 0 END) AS misses,
			COUNT(*) AS attempts
		FROM answers a JOIN rounds r ON r.id = a.round_id
		WHERE (? = '' OR r.game_id = ?)
		GROUP BY r.game_id, a.item_key, a.operand1, a.operand2, a.expected
		HAVING misses > 0
		ORDER BY misses DESC, attempts DESC, r.game_id, a.operand1, a.operand2
		LIMIT ?`, gameID, gameID, limit)
	if err != nil {
		return nil, fmt.Errorf("missed items: %w", err)
	}
	defer rows.Close()

	var out []MissedItem
	for rows.Next() {
		var m MissedItem
		if err := rows.Scan(&m.GameID, &m.ItemKey, &m.Operand1, &m.Operand2, &m.Expected,
			&m.Prompt, &m.Misses, &m.Attempts); err != nil {
			return nil, fmt.Errorf("scan missed item: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
