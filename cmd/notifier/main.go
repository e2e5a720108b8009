package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surf_class_notifier/internal/app"
	"surf_class_notifier/internal/domain/class"
	"surf_class_notifier/internal/domain/digest"
	"surf_class_notifier/internal/infra/config"
	idb "surf_class_notifier/internal/infra/database"
	"surf_class_notifier/internal/infra/dropbox"
	"surf_class_notifier/internal/infra/logger"
	"surf_class_notifier/internal/infra/scheduler"
	"surf_class_notifier/internal/infra/scrape"
	itg "surf_class_notifier/internal/infra/telegram"
	"surf_class_notifier/internal/infra/weather"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("Could not load application configuration")
	}
	logger.Init(cfg)
	log := logger.Get()
	log.WithField("environment", cfg.Environment).Info("Surf Class Notifier starting")

	// Local session database
	db, err := idb.NewSQLiteConnection(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("Could not open session database")
	}
	defer db.Close()
	sessionRepo := idb.NewSQLiteSessionRepository(db)
	log.WithField("path", cfg.DatabasePath).Info("Session database ready")

	// Scraper clients
	calendarClient, err := scrape.NewCalendarClient(cfg.RegistrationSiteURL, cfg.WebEmail, cfg.WebPassword, log)
	if err != nil {
		log.WithError(err).Fatal("Could not create calendar client")
	}
	forecastScraper := scrape.NewForecastScraper(cfg.ForecastURL, log)

	// Backup store
	backupClient := dropbox.NewClient(dropbox.Credentials{
		AccessToken:  cfg.DropboxAccessToken,
		RefreshToken: cfg.DropboxRefreshToken,
		ClientID:     cfg.DropboxClientID,
		ClientSecret: cfg.DropboxClientSecret,
	}, log)

	// Optional weather decoration
	var weatherSource app.WeatherSource
	if cfg.WeatherAPIKey != "" && cfg.LocationName != "" {
		weatherSource = weather.NewClient(cfg.WeatherAPIKey, cfg.LocationName, log)
	} else {
		log.Info("Weather lookup not configured; digests will carry no weather marker")
	}

	// Telegram bot and delivery fan-out
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := log.WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram handler error")
		},
	})
	if err != nil {
		log.WithError(err).Fatal("Could not create Telegram bot")
	}
	notifier := itg.NewNotifier(itg.NewTelebotAdapter(bot), cfg.TelegramChatIDs, log)

	// Core services
	discoverySvc := app.NewDiscoveryService(sessionRepo, class.SuppressionRules(cfg.SuppressedClasses), log)
	composer := digest.NewComposer(cfg.FeaturedKeywords, cfg.RegistrationSiteURL)
	syncSvc := app.NewSyncService(
		discoverySvc,
		sessionRepo,
		composer,
		calendarClient,
		forecastScraper,
		backupClient,
		weatherSource,
		notifier,
		log,
		app.SyncConfig{
			WindowDays:   11, // today plus the next 10 days
			LocalDBPath:  cfg.DatabasePath,
			RemoteDBPath: cfg.DropboxRemotePath,
			EnablePull:   cfg.EnableDropboxDownload,
			EnablePush:   cfg.EnableDropboxUpload,
		},
	)

	if cfg.RunOnce {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := syncSvc.Run(ctx); err != nil {
			log.WithError(err).Fatal("Sync run failed")
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	itg.RegisterBotCommands(ctx, bot, sessionRepo, log.WithField("component", "bot"))
	go bot.Start()

	syncScheduler := scheduler.NewSyncScheduler(syncSvc, log, cfg.CronSpecSync)
	syncScheduler.Start()
	log.Info("Application setup complete; bot and scheduler are running")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application")
	syncScheduler.Stop()
	bot.Stop()
	log.Info("Application shut down gracefully")
}
