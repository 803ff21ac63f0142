package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLDB is the database interface used by all stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Compile-time check that *sql.DB satisfies SQLDB.
var _ SQLDB = (*sql.DB)(nil)

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

	// Create tables
	schema := `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		dni TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		join_date TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS member_schedule (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		day TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS payment_log (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		date TEXT NOT NULL,
		amount INTEGER NOT NULL,
		concept TEXT NOT NULL DEFAULT '',
		method TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS slot (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		duration_min INTEGER NOT NULL DEFAULT 60,
		status TEXT NOT NULL DEFAULT 'available'
	);

	CREATE TABLE IF NOT EXISTS reservation (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		slot_id TEXT NOT NULL,
		client_name TEXT NOT NULL DEFAULT '',
		client_phone TEXT,
		client_email TEXT,
		accessed_at TEXT,
		attended INTEGER,
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id),
		FOREIGN KEY (slot_id) REFERENCES slot(id)
	);

	CREATE TABLE IF NOT EXISTS routine (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS routine_day (
		id TEXT PRIMARY KEY,
		routine_id TEXT NOT NULL,
		name TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (routine_id) REFERENCES routine(id)
	);

	CREATE TABLE IF NOT EXISTS routine_exercise (
		id TEXT PRIMARY KEY,
		day_id TEXT NOT NULL,
		name TEXT NOT NULL,
		series INTEGER NOT NULL DEFAULT 0,
		reps TEXT NOT NULL DEFAULT '',
		weight TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (day_id) REFERENCES routine_day(id)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
