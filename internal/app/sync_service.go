// internal/app/sync_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"surf_class_notifier/internal/domain/class"
	"surf_class_notifier/internal/domain/digest"
	"surf_class_notifier/internal/domain/forecast"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// SessionSource provides scraped class records from the registration
// site. Start establishes the logged-in session; a Start failure is the
// one unrecoverable error of a sync run.
type SessionSource interface {
	Start(ctx context.Context) error
	FetchSessionsForDate(ctx context.Context, date time.Time) ([]class.ScrapedSession, error)
	Close()
}

// ForecastSource provides the raw forecast rows for index building.
type ForecastSource interface {
	FetchRows(ctx context.Context) ([]forecast.Row, error)
}

// BackupStore moves the database file to and from remote storage.
type BackupStore interface {
	Pull(ctx context.Context, remotePath, localPath string) error
	Push(ctx context.Context, localPath, remotePath string) error
}

// Broadcaster delivers a composed digest to all configured recipients.
// It returns an error when at least one recipient could not be reached.
type Broadcaster interface {
	Broadcast(text string) error
}

// WeatherSource resolves the short weather marker for a date.
type WeatherSource interface {
	Lookup(ctx context.Context, date time.Time) (string, error)
}

// SyncConfig carries the orchestration knobs.
type SyncConfig struct {
	WindowDays       int // today plus the following WindowDays-1 dates
	LocalDBPath      string
	RemoteDBPath     string
	EnablePull       bool
	EnablePush       bool
	FetchesPerSecond float64 // pacing of per-date calendar fetches
}

type dateResult int

const (
	dateNotified dateResult = iota
	dateQuiet
	dateSkipped
	dateDeliveryFailed
)

// SyncService drives the per-day discovery loop: scrape, reconcile,
// compose, deliver, persist, with the backup round trip bracketing the
// whole window. Dates are processed strictly in order; concurrent runs
// would race on the set-difference check, so a single instance is a
// standing deployment assumption.
type SyncService struct {
	discovery *DiscoveryService
	repo      class.Repository
	composer  *digest.Composer
	sessions  SessionSource
	forecasts ForecastSource
	backup    BackupStore
	weather   WeatherSource // optional, may be nil
	notifier  Broadcaster
	limiter   *rate.Limiter
	logger    *logrus.Logger
	cfg       SyncConfig
}

func NewSyncService(
	discovery *DiscoveryService,
	repo class.Repository,
	composer *digest.Composer,
	sessions SessionSource,
	forecasts ForecastSource,
	backup BackupStore,
	weather WeatherSource,
	notifier Broadcaster,
	logger *logrus.Logger,
	cfg SyncConfig,
) *SyncService {
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 11
	}
	pace := cfg.FetchesPerSecond
	if pace <= 0 {
		pace = 1 // one date fetch per second, roughly the source's pacing
	}
	return &SyncService{
		discovery: discovery,
		repo:      repo,
		composer:  composer,
		sessions:  sessions,
		forecasts: forecasts,
		backup:    backup,
		weather:   weather,
		notifier:  notifier,
		limiter:   rate.NewLimiter(rate.Limit(pace), 1),
		logger:    logger,
		cfg:       cfg,
	}
}

// Run executes one full sync: forecast fetch, backup pull, the window
// loop, backup push. Backup failures are logged, never fatal; the push
// is attempted even when the window loop aborts.
func (s *SyncService) Run(ctx context.Context) error {
	started := time.Now()
	s.logger.Info("Sync run starting")

	index := s.buildForecastIndex(ctx, started)

	if s.cfg.EnablePull {
		if err := s.backup.Pull(ctx, s.cfg.RemoteDBPath, s.cfg.LocalDBPath); err != nil {
			s.logger.WithError(err).Warn("Backup pull failed; continuing with the local database")
		}
	} else {
		s.logger.Debug("Backup pull disabled")
	}

	windowErr := s.runWindow(ctx, started, index)

	if s.cfg.EnablePush {
		if err := s.backup.Push(ctx, s.cfg.LocalDBPath, s.cfg.RemoteDBPath); err != nil {
			s.logger.WithError(err).Warn("Backup push failed")
		}
	} else {
		s.logger.Debug("Backup push disabled")
	}

	if windowErr != nil {
		return windowErr
	}
	s.logger.WithField("elapsed", time.Since(started).String()).Info("Sync run finished")
	return nil
}

func (s *SyncService) buildForecastIndex(ctx context.Context, today time.Time) *forecast.Index {
	rows, err := s.forecasts.FetchRows(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Forecast fetch failed; sessions will store no wave energy")
		rows = nil
	}
	return forecast.Build(rows, today)
}

func (s *SyncService) runWindow(ctx context.Context, today time.Time, index *forecast.Index) error {
	if err := s.sessions.Start(ctx); err != nil {
		return fmt.Errorf("could not start calendar session: %w", err)
	}
	defer s.sessions.Close()

	for i := 0; i < s.cfg.WindowDays; i++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("window loop interrupted: %w", err)
		}
		date := today.AddDate(0, 0, i)
		result := s.syncDate(ctx, date, index)
		s.logger.WithFields(logrus.Fields{
			"date":   date.Format("2006-01-02"),
			"result": result.String(),
		}).Debug("Date processed")
	}
	return nil
}

// syncDate runs the linear stage sequence for one date. Every outcome
// short of an unrecoverable session failure resolves to a result value
// so the window loop always moves on to the next date.
func (s *SyncService) syncDate(ctx context.Context, date time.Time, index *forecast.Index) dateResult {
	dateStr := date.Format("2006-01-02")

	scraped, err := s.sessions.FetchSessionsForDate(ctx, date)
	if err != nil {
		s.logger.WithError(err).WithField("date", dateStr).Warn("Could not fetch sessions; skipping date")
		return dateSkipped
	}

	notify := s.discovery.Reconcile(ctx, dateStr, scraped, index)
	if len(notify) == 0 {
		return dateQuiet
	}

	text := s.composer.Compose(notify, date, s.weatherMarker(ctx, date))
	if err := s.notifier.Broadcast(text); err != nil {
		// Not marking sent is what prevents a duplicate here: the
		// sessions stay pending and the next run retries them.
		s.logger.WithError(err).WithField("date", dateStr).Error("Digest delivery failed; sessions remain pending")
		return dateDeliveryFailed
	}

	for i := range notify {
		n := &notify[i]
		if err := s.repo.MarkSent(ctx, n.Date, n.ClassName, n.TimeRange); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"date":  n.Date,
				"class": n.ClassName,
				"time":  n.TimeRange,
			}).Error("Failed to mark session as sent")
		}
	}
	s.logger.WithFields(logrus.Fields{
		"date":     dateStr,
		"sessions": len(notify),
	}).Info("Digest delivered")
	return dateNotified
}

func (s *SyncService) weatherMarker(ctx context.Context, date time.Time) string {
	if s.weather == nil {
		return ""
	}
	marker, err := s.weather.Lookup(ctx, date)
	if err != nil {
		s.logger.WithError(err).WithField("date", date.Format("2006-01-02")).Debug("Weather lookup failed")
		return ""
	}
	return marker
}

func (r dateResult) String() string {
	switch r {
	case dateNotified:
		return "notified"
	case dateQuiet:
		return "quiet"
	case dateSkipped:
		return "skipped"
	case dateDeliveryFailed:
		return "delivery_failed"
	default:
		return "unknown"
	}
}
