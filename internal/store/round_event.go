package store

import (
	"context"
	"fmt"
)

func (s *Store) AppendRoundStart(ctx context.Context, data RoundStartData) error {
	s.logger.Debug("sql", "op", "insert", "table", "rounds", "id", data.RoundID)

	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO rounds (id, sequence, game_id, topic, attempt, play_again, set_index,
			required_correct, max_questions, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.RoundID, seq, data.GameID, data.Topic, data.Attempt, boolInt(data.PlayAgain),
		data.SetIndex, data.RequiredCorrect, data.MaxQuestions, formatTime(data.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("save round start: %w", err)
	}
	return nil
}

func (s *Store) AppendRoundEnd(ctx context.Context, data RoundEndData) error {
	s.logger.Debug("sql", "op", "update", "table", "rounds", "id", data.RoundID)

	res, err := s.db.ExecContext(ctx,
		`UPDATE rounds SET ended_at = ?, total_answered = ?, correct = ?, incorrect = ?,
			reason = ?, successful = ?, deferred = ?, best_streak = ?
		 WHERE id = ?`,
		formatTime(data.EndedAt), data.TotalAnswered, data.Correct, data.Incorrect,
		data.Reason, boolInt(data.Successful), data.Deferred, data.BestStreak, data.RoundID,
	)
	if err != nil {
		return fmt.Errorf("save round end: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("save round end %s: %w", data.RoundID, ErrNotFound)
	}
	return nil
}

func (s *Store) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	s.logger.Debug("sql", "op", "insert", "table", "answers", "round", data.RoundID, "number", data.Number)

	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO answers (sequence, round_id, number, item_key, operand1, operand2, expected,
			prompt, given, correct, retry, response_ms, answered_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, data.RoundID, data.Number, data.ItemKey, data.Operand1, data.Operand2, data.Expected,
		data.Prompt, data.Given, boolInt(data.Correct), boolInt(data.Retry), data.ResponseMs,
		formatTime(data.AnsweredAt),
	)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}
