package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent so the
// full list re-runs safely on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS calendars (
		id               TEXT PRIMARY KEY,
		name             TEXT NOT NULL,
		color            TEXT NOT NULL DEFAULT '',
		visible          INTEGER NOT NULL DEFAULT 1,
		include_in_stats INTEGER NOT NULL DEFAULT 1,
		position         INTEGER NOT NULL DEFAULT 0,
		events           TEXT NOT NULL DEFAULT '[]',
		remote           TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_calendars_position ON calendars(position)`,

	// String-keyed fallback store: normalization rules, main calendar id
	// and any future odds and ends live here as JSON values.
	`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
}
