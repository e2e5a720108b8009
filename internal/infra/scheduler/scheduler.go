package scheduler

import (
	"context"
	"time"

	"surf_class_notifier/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SyncScheduler runs the discovery sync on a cron spec. One job only:
// the whole window loop is a single sequential run, and overlapping
// runs would race on the store's read-then-insert check, so a slow run
// simply makes the next trigger wait its turn.
type SyncScheduler struct {
	cronEngine *cron.Cron
	syncSvc    *app.SyncService
	logger     *logrus.Logger
	cronSpec   string
	running    chan struct{}
}

func NewSyncScheduler(syncSvc *app.SyncService, logger *logrus.Logger, cronSpec string) *SyncScheduler {
	return &SyncScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		syncSvc:    syncSvc,
		logger:     logger,
		cronSpec:   cronSpec,
		running:    make(chan struct{}, 1),
	}
}

func (s *SyncScheduler) Start() {
	s.logger.Info("Starting sync scheduler")

	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		select {
		case s.running <- struct{}{}:
			defer func() { <-s.running }()
		default:
			s.logger.Warn("Previous sync run still in progress; skipping this trigger")
			return
		}

		s.logger.Info("Cron job triggered for daily sync")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := s.syncSvc.Run(ctx); err != nil {
			s.logger.WithError(err).Error("Sync run failed")
		}
	})
	if err != nil {
		s.logger.WithError(err).Fatal("Could not add sync cron job")
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpec).Info("Sync scheduler started")
}

func (s *SyncScheduler) Stop() {
	s.logger.Info("Stopping sync scheduler")
	ctx := s.cronEngine.Stop() // Stops new triggers, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Sync scheduler gracefully stopped")
}
