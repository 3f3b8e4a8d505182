package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (s *Store) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	s.logger.Debug("sql", "op", "insert", "table", "llm_requests", "purpose", data.Purpose)

	seq, err := s.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO llm_requests (sequence, provider, model, purpose, input_tokens, output_tokens,
			latency_ms, success, error_message, request_body, response_body, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seq, data.Provider, data.Model, data.Purpose, data.InputTokens, data.OutputTokens,
		data.LatencyMs, boolInt(data.Success), data.ErrorMessage, data.RequestBody, data.ResponseBody,
		formatTime(timeNow()),
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// QueryLLMEvents returns LLM request events, newest first.
func (s *Store) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	query, args := opts.apply(selectFrom("llm_requests",
		"sequence", "created_at", "provider", "model", "purpose", "input_tokens", "output_tokens",
		"latency_ms", "success", "error_message", "request_body", "response_body",
	), "created_at").Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		var (
			e       LLMRequestEvent
			ts      string
			success int
		)
		if err := rows.Scan(&e.Sequence, &ts, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &success, &e.ErrorMessage,
			&e.RequestBody, &e.ResponseBody); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		e.Timestamp = parseTime(ts)
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// apply adds the sequence and time filters and the limit to sel, newest
// first. tsColumn is the table's timestamp column.
func (o QueryOpts) apply(sel *entsql.Selector, tsColumn string) *entsql.Selector {
	if o.After > 0 {
		sel.Where(entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		sel.Where(entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		sel.Where(entsql.GTE(tsColumn, formatTime(o.From)))
	}
	if !o.To.IsZero() {
		sel.Where(entsql.LTE(tsColumn, formatTime(o.To)))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if o.Limit > 0 {
		sel.Limit(o.Limit)
	}
	return sel
}

// selectFrom starts a SQLite SELECT of columns from table.
func selectFrom(table string, columns ...string) *entsql.Selector {
	return entsql.Dialect(dialect.SQLite).Select(columns...).From(entsql.Table(table))
}
