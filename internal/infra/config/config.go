package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Default class-name lists, overridable via env. Suppressed classes are
// stored but never notified; featured keywords pick the classes that
// land in the promoted digest section.
var (
	defaultSuppressedClasses = []string{
		"AZUL",
		"CINZA",
		"ERASMUS",
		"BEGINNERS ADULTS",
		"PRIVADA",
		"SURF ADAPTADO",
		"GRUPO",
		"ONDA SOCIAL",
		"TREINO FÍSICO GROMS - FIT2SURF",
	}
	defaultFeaturedKeywords = []string{
		"PERFORMANCE LARANJA",
		"PERFORMANCE VERMELHO",
		"PERFORMANCE ALL LEVELS",
		"SURF SAFARI PERFORMANCE",
	}
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken   string
	TelegramChatIDs []int64 // all recipients of the digest, channels included

	WebEmail            string
	WebPassword         string
	RegistrationSiteURL string
	ForecastURL         string

	WeatherAPIKey string
	LocationName  string

	DatabasePath          string
	DropboxRemotePath     string
	DropboxAccessToken    string
	DropboxRefreshToken   string
	DropboxClientID       string
	DropboxClientSecret   string
	EnableDropboxDownload bool
	EnableDropboxUpload   bool

	SuppressedClasses []string
	FeaturedKeywords  []string

	LogLevel     string
	Environment  string
	CronSpecSync string
	RunOnce      bool
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	chatIDs, err := parseChatIDs(os.Getenv("TELEGRAM_CHAT_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.TelegramChatIDs = chatIDs

	cfg.WebEmail = os.Getenv("WEB_EMAIL")
	cfg.WebPassword = os.Getenv("WEB_PASSWORD")

	cfg.RegistrationSiteURL = os.Getenv("SURF_REGISTERING_WEBSITE_LINK")
	if cfg.RegistrationSiteURL == "" {
		return nil, fmt.Errorf("SURF_REGISTERING_WEBSITE_LINK is not set")
	}
	cfg.ForecastURL = os.Getenv("SURF_FORECAST_LINK")
	if cfg.ForecastURL == "" {
		return nil, fmt.Errorf("SURF_FORECAST_LINK is not set")
	}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.LocationName = os.Getenv("LOCATION_NAME")

	cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "./surfClasses.db"
	}
	cfg.DropboxRemotePath = os.Getenv("DROPBOX_REMOTE_PATH")
	if cfg.DropboxRemotePath == "" {
		cfg.DropboxRemotePath = "/surfClasses.db"
	}
	cfg.DropboxAccessToken = os.Getenv("DROPBOX_ACCESS_TOKEN")
	cfg.DropboxRefreshToken = os.Getenv("DROPBOX_REFRESH_TOKEN")
	cfg.DropboxClientID = os.Getenv("DROPBOX_CLIENT_ID")
	cfg.DropboxClientSecret = os.Getenv("DROPBOX_CLIENT_SECRET")
	cfg.EnableDropboxDownload = parseBool(os.Getenv("ENABLE_DROPBOX_DOWNLOAD"))
	cfg.EnableDropboxUpload = parseBool(os.Getenv("ENABLE_DROPBOX_UPLOAD"))

	cfg.SuppressedClasses = parseList(os.Getenv("SUPPRESSED_CLASSES"), defaultSuppressedClasses)
	cfg.FeaturedKeywords = parseList(os.Getenv("FEATURED_CLASS_KEYWORDS"), defaultFeaturedKeywords)

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecSync = os.Getenv("CRON_SPEC_SYNC")
	if cfg.CronSpecSync == "" {
		cfg.CronSpecSync = "0 8 * * *" // Default: 08:00 daily
	}
	cfg.RunOnce = parseBool(os.Getenv("RUN_ONCE"))

	return cfg, nil
}

func parseChatIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_IDS is not set")
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat ID %q in TELEGRAM_CHAT_IDS: %w", part, err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_IDS contains no valid IDs")
	}
	return ids, nil
}

func parseList(raw string, fallback []string) []string {
	if raw == "" {
		return fallback
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func parseBool(raw string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && value
}
