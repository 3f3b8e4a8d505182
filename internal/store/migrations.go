package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// schema holds the DDL for every table. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rounds (
		id               TEXT PRIMARY KEY,
		sequence         INTEGER NOT NULL,
		game_id          TEXT NOT NULL,
		topic            TEXT NOT NULL,
		attempt          INTEGER NOT NULL,
		play_again       INTEGER NOT NULL DEFAULT 0,
		set_index        INTEGER NOT NULL DEFAULT 0,
		required_correct INTEGER NOT NULL,
		max_questions    INTEGER NOT NULL,
		started_at       TEXT NOT NULL,
		ended_at         TEXT,
		total_answered   INTEGER NOT NULL DEFAULT 0,
		correct          INTEGER NOT NULL DEFAULT 0,
		incorrect        INTEGER NOT NULL DEFAULT 0,
		reason           TEXT NOT NULL DEFAULT '',
		successful       INTEGER NOT NULL DEFAULT 0,
		deferred         INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_game_id ON rounds(game_id)`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_sequence ON rounds(sequence)`,

	`CREATE TABLE IF NOT EXISTS answers (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence    INTEGER NOT NULL,
		round_id    TEXT NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
		number      INTEGER NOT NULL,
		operand1    INTEGER NOT NULL,
		operand2    INTEGER NOT NULL,
		expected    INTEGER NOT NULL,
		given       TEXT NOT NULL,
		correct     INTEGER NOT NULL,
		retry       INTEGER NOT NULL DEFAULT 0,
		response_ms INTEGER NOT NULL DEFAULT 0,
		answered_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_answers_round_id ON answers(round_id)`,

	`CREATE TABLE IF NOT EXISTS llm_requests (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_requests_sequence ON llm_requests(sequence)`,
}

// alterStatements are column additions made after the first release.
// SQLite has no ADD COLUMN IF NOT EXISTS, so each is checked first.
var alterStatements = []struct {
	table    string
	column   string
	alterSQL string
	indexSQL string
}{
	{
		table:    "answers",
		column:   "prompt",
		alterSQL: "ALTER TABLE answers ADD COLUMN prompt TEXT NOT NULL DEFAULT ''",
	},
	{
		table:    "rounds",
		column:   "best_streak",
		alterSQL: "ALTER TABLE rounds ADD COLUMN best_streak INTEGER NOT NULL DEFAULT 0",
	},
	{
		table:    "answers",
		column:   "item_key",
		alterSQL: "ALTER TABLE answers ADD COLUMN item_key TEXT NOT NULL DEFAULT ''",
		indexSQL: "CREATE INDEX IF NOT EXISTS idx_answers_item_key ON answers(item_key)",
	},
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	for _, alter := range alterStatements {
		if err := addColumnIfNotExists(ctx, db, alter.table, alter.column, alter.alterSQL); err != nil {
			return fmt.Errorf("add %s.%s: %w", alter.table, alter.column, err)
		}
		if alter.indexSQL != "" {
			if _, err := db.ExecContext(ctx, alter.indexSQL); err != nil {
				return fmt.Errorf("index %s.%s: %w", alter.table, alter.column, err)
			}
		}
	}
	return nil
}

func addColumnIfNotExists(ctx context.Context, db *sql.DB, table, column, alterSQL string) error {
	exists, err := hasColumn(ctx, db, table, column)
	if err != nil || exists {
		return err
	}
	_, err = db.ExecContext(ctx, alterSQL)
	return err
}

// hasColumn reads PRAGMA table_info fully before returning so the
// connection is free for the ALTER that may follow.
func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return false, err
	}
	defer rows.Close()

	found := false
	for rows.Next() {
		var (
			cid          int
			name, ctype  string
			notnull, pk  int
			defaultValue *string
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &defaultValue, &pk); err != nil {
			return false, err
		}
		if strings.EqualFold(name, column) {
			found = true
		}
	}
	return found, rows.Err()
}
