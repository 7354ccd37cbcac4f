package store

import (
	"database/sql"
	"fmt"
)

// schema lists the DDL applied on every Open. Statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp     TEXT    NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_sequence ON llm_request_events (sequence)`,

	`CREATE TABLE IF NOT EXISTS reflections (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		text       TEXT NOT NULL,
		analysis   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reflections_created ON reflections (created_at)`,

	`CREATE TABLE IF NOT EXISTS classes (
		id         TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		name       TEXT NOT NULL,
		day        TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time   TEXT NOT NULL,
		subject    TEXT NOT NULL,
		room       TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id           TEXT PRIMARY KEY,
		created_at   TEXT    NOT NULL,
		title        TEXT    NOT NULL,
		subject      TEXT    NOT NULL,
		due_date     TEXT    NOT NULL,
		description  TEXT    NOT NULL DEFAULT '',
		points       INTEGER NOT NULL,
		status       TEXT    NOT NULL,
		completed_at TEXT    NOT NULL DEFAULT '',
		completed_by TEXT    NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS reward_users (
		kind         TEXT    NOT NULL,
		user_id      TEXT    NOT NULL,
		name         TEXT    NOT NULL,
		total_points INTEGER NOT NULL DEFAULT 0,
		badges       TEXT    NOT NULL DEFAULT '[]',
		stats        TEXT    NOT NULL DEFAULT '{}',
		PRIMARY KEY (kind, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS reward_history (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		kind      TEXT    NOT NULL,
		user_id   TEXT    NOT NULL,
		timestamp TEXT    NOT NULL,
		points    INTEGER NOT NULL,
		reason    TEXT    NOT NULL,
		FOREIGN KEY (kind, user_id) REFERENCES reward_users (kind, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reward_history_user ON reward_history (kind, user_id, id)`,
}

func migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
