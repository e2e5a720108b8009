package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// NewSQLiteConnection opens (creating if needed) the local session
// database. The database must stay a single ordinary file so the
// Dropbox backup can move it as one blob, hence the rollback journal
// instead of WAL.
func NewSQLiteConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The driver is safe for concurrent use, but SQLite wants a single
	// writer; one connection sidesteps SQLITE_BUSY entirely.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode = DELETE`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	// No UNIQUE constraint on (date, class_name, class_time): callers
	// de-duplicate against ListByDate before inserting.
	const ddl = `
CREATE TABLE IF NOT EXISTS classes (
  date TEXT NOT NULL,
  class_name TEXT NOT NULL,
  class_time TEXT NOT NULL,
  start_time TEXT,
  end_time TEXT,
  coach_name TEXT,
  wave_energy INTEGER,
  notified INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_classes_date ON classes(date);
`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create classes table: %w", err)
	}
	return nil
}
