// internal/app/discovery_service.go
package app

import (
	"context"
	"database/sql"
	"strings"

	"surf_class_notifier/internal/domain/class"
	"surf_class_notifier/internal/domain/forecast"

	"github.com/sirupsen/logrus"
)

// DiscoveryService is the reconciliation core: it compares freshly
// scraped sessions against the store, persists the ones not seen
// before, and computes the set that still needs a notification.
type DiscoveryService struct {
	repo   class.Repository
	rules  class.SuppressionRules
	logger *logrus.Logger
}

func NewDiscoveryService(repo class.Repository, rules class.SuppressionRules, logger *logrus.Logger) *DiscoveryService {
	return &DiscoveryService{
		repo:   repo,
		rules:  rules,
		logger: logger,
	}
}

// Reconcile processes one date's scrape. A scraped session is new iff
// no stored session shares its (date, className, timeRange) key; new
// sessions are enriched with derived times and wave energy, classified
// against the suppression rules and inserted. The returned notify set
// is the store's pending scan for the date, filtered through the rules
// once more so that rule changes also exclude sessions inserted as
// pending on earlier runs.
//
// Store failures never fail the caller: a failed read degrades to
// "nothing known" (re-notifying beats silently dropping new sessions),
// and a failed insert leaves the session to be rediscovered next run.
func (s *DiscoveryService) Reconcile(ctx context.Context, date string, scraped []class.ScrapedSession, index *forecast.Index) []class.Session {
	known, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		s.logger.WithError(err).WithField("date", date).Error("Could not read known sessions; treating date as empty")
		known = nil
	}

	knownKeys := make(map[class.Key]struct{}, len(known))
	for i := range known {
		knownKeys[known[i].Key()] = struct{}{}
	}

	for _, raw := range scraped {
		session := s.buildSession(date, raw, index)
		if _, exists := knownKeys[session.Key()]; exists {
			continue
		}
		if err := s.repo.Insert(ctx, &session); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"date":  date,
				"class": session.ClassName,
				"time":  session.TimeRange,
			}).Error("Failed to insert new session")
		} else {
			s.logger.WithFields(logrus.Fields{
				"date":       date,
				"class":      session.ClassName,
				"time":       session.TimeRange,
				"coach":      session.CoachName,
				"suppressed": session.State == class.StateSuppressed,
			}).Info("New session recorded")
		}
		// Track the key either way so a duplicate row inside the same
		// scrape batch cannot insert twice.
		knownKeys[session.Key()] = struct{}{}
	}

	pending, err := s.repo.ListPending(ctx, date)
	if err != nil {
		s.logger.WithError(err).WithField("date", date).Error("Could not list pending sessions")
		return nil
	}

	notify := make([]class.Session, 0, len(pending))
	for _, p := range pending {
		if s.rules.Match(p.ClassName) {
			continue
		}
		notify = append(notify, p)
	}
	return notify
}

// buildSession turns a raw scraped record into a storable session.
// Absence of forecast data is never a reason to suppress; an
// unparseable time range just leaves the derived fields null.
func (s *DiscoveryService) buildSession(date string, raw class.ScrapedSession, index *forecast.Index) class.Session {
	session := class.Session{
		Date:      date,
		ClassName: strings.ToUpper(strings.TrimSpace(raw.ClassName)),
		TimeRange: strings.TrimSpace(raw.TimeRange),
		CoachName: strings.TrimSpace(raw.CoachName),
		State:     class.StatePending,
	}

	if start, end, ok := class.SplitTimeRange(session.TimeRange); ok {
		session.StartTime = sql.NullString{String: start, Valid: true}
		session.EndTime = sql.NullString{String: end, Valid: true}
	}

	if hour, ok := class.StartHour(session.TimeRange); ok {
		if energy, found := index.Lookup(date, forecast.PeriodForHour(hour)); found {
			session.WaveEnergy = sql.NullInt64{Int64: energy, Valid: true}
		}
	}

	if s.rules.Match(session.ClassName) {
		session.State = class.StateSuppressed
	}
	return session
}
