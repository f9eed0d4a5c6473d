package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		total_sessions INTEGER NOT NULL DEFAULT 0,
		used_sessions INTEGER NOT NULL DEFAULT 0,
		unit_price INTEGER NOT NULL DEFAULT 0,
		registration_date TEXT NOT NULL,
		birthday TEXT,
		forecast_status TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS sale (
		id TEXT PRIMARY KEY,
		sale_date TEXT NOT NULL,
		member_id TEXT NOT NULL,
		member_name TEXT NOT NULL DEFAULT '',
		class_count INTEGER NOT NULL,
		unit_price INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		paid_amount INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS session (
		id TEXT PRIMARY KEY,
		session_date TEXT NOT NULL,
		member_id TEXT NOT NULL,
		member_name TEXT NOT NULL DEFAULT '',
		class_count INTEGER NOT NULL DEFAULT 1,
		unit_price INTEGER NOT NULL DEFAULT 0,
		completion_source_id TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS calendar_event (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		member_id TEXT NOT NULL DEFAULT '',
		recurrence_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS weekly_entry (
		id TEXT PRIMARY KEY,
		day_of_week INTEGER NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		member_id TEXT NOT NULL,
		member_name TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'planned',
		FOREIGN KEY (member_id) REFERENCES member(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS forecast_entry (
		id TEXT PRIMARY KEY,
		forecast_date TEXT NOT NULL,
		member_name TEXT NOT NULL,
		class_count INTEGER NOT NULL,
		unit_price INTEGER NOT NULL,
		amount INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT,
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_sale_member ON sale(member_id, sale_date);
	CREATE INDEX IF NOT EXISTS idx_session_member ON session(member_id, session_date);
	CREATE INDEX IF NOT EXISTS idx_event_date ON calendar_event(date);
	CREATE INDEX IF NOT EXISTS idx_event_recurrence ON calendar_event(recurrence_id);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
