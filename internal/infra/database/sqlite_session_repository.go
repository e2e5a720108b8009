// internal/infra/database/sqlite_session_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"surf_class_notifier/internal/domain/class"
)

type SQLiteSessionRepository struct {
	db *sql.DB
}

func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

const sessionColumns = `date, class_name, class_time, start_time, end_time, coach_name, wave_energy, notified`

func (r *SQLiteSessionRepository) ListByDate(ctx context.Context, date string) ([]class.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM classes WHERE date = ?`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions for date %s: %w", date, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SQLiteSessionRepository) ListPending(ctx context.Context, date string) ([]class.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM classes WHERE date = ? AND notified = ?`
	rows, err := r.db.QueryContext(ctx, query, date, class.StatePending)
	if err != nil {
		return nil, fmt.Errorf("error querying pending sessions for date %s: %w", date, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SQLiteSessionRepository) Insert(ctx context.Context, s *class.Session) error {
	query := `INSERT INTO classes (` + sessionColumns + `)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.Date, s.ClassName, s.TimeRange, s.StartTime, s.EndTime,
		s.CoachName, s.WaveEnergy, s.State,
	)
	if err != nil {
		return fmt.Errorf("error inserting session (%s, %s, %s): %w", s.Date, s.ClassName, s.TimeRange, err)
	}
	return nil
}

// MarkSent transitions matching pending rows to sent. Matching no rows
// is not an error; the session may already be sent or suppressed.
func (r *SQLiteSessionRepository) MarkSent(ctx context.Context, date, className, timeRange string) error {
	query := `UPDATE classes SET notified = ?
              WHERE date = ? AND class_name = ? AND class_time = ? AND notified = ?`
	_, err := r.db.ExecContext(ctx, query, class.StateSent, date, className, timeRange, class.StatePending)
	if err != nil {
		return fmt.Errorf("error marking session (%s, %s, %s) as sent: %w", date, className, timeRange, err)
	}
	return nil
}

// Helper to scan multiple rows
func scanSessions(rows *sql.Rows) ([]class.Session, error) {
	sessions := make([]class.Session, 0)
	for rows.Next() {
		var s class.Session
		if err := rows.Scan(
			&s.Date, &s.ClassName, &s.TimeRange, &s.StartTime, &s.EndTime,
			&s.CoachName, &s.WaveEnergy, &s.State,
		); err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return sessions, nil
}
