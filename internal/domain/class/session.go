// internal/domain/class/session.go
package class

import (
	"database/sql"
	"strconv"
	"strings"
)

// NotificationState tracks where a stored session sits in its
// notification lifecycle. Suppressed rows are kept for history but are
// never surfaced by the pending scan; Sent is terminal.
type NotificationState int

const (
	StateSuppressed NotificationState = 0
	StatePending    NotificationState = 1
	StateSent       NotificationState = 2
)

// ScrapedSession is a raw record as extracted from the calendar page,
// before it is matched against the store.
type ScrapedSession struct {
	ClassName string
	TimeRange string
	CoachName string
}

// Session represents one scheduled class occurrence on one date.
// Identity is the (Date, ClassName, TimeRange) triple; no two stored
// rows may share it.
type Session struct {
	Date       string // YYYY-MM-DD
	ClassName  string // normalized: trimmed, upper-cased
	TimeRange  string // raw "HH:MM - HH:MM" as scraped
	StartTime  sql.NullString
	EndTime    sql.NullString
	CoachName  string
	WaveEnergy sql.NullInt64
	State      NotificationState
}

// Key identifies a session uniquely within the store.
type Key struct {
	Date      string
	ClassName string
	TimeRange string
}

func (s *Session) Key() Key {
	return Key{Date: s.Date, ClassName: s.ClassName, TimeRange: s.TimeRange}
}

const timeRangeSeparator = " - "

// SplitTimeRange splits a "HH:MM - HH:MM" range into start and end.
// A range without the separator yields ok=false; such sessions are
// still storable and notifiable, they just carry no derived times.
func SplitTimeRange(timeRange string) (start, end string, ok bool) {
	if !strings.Contains(timeRange, timeRangeSeparator) {
		return "", "", false
	}
	parts := strings.SplitN(timeRange, timeRangeSeparator, 2)
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// StartHour extracts the starting hour of a time range.
func StartHour(timeRange string) (int, bool) {
	start, _, ok := SplitTimeRange(timeRange)
	if !ok {
		return 0, false
	}
	hourPart, _, found := strings.Cut(start, ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, false
	}
	return hour, true
}
