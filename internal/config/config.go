package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr string

	DBDriver    string
	DBDSN       string
	AutoMigrate bool

	CatalogFiles    []string
	RefreshInterval string
	SessionTTL      time.Duration

	LogLevel  string
	LogFormat string

	AlertWebhookURL string
	SendgridAPIKey  string
	MailFrom        string
}

// FromEnv builds a Config from environment variables, with sane defaults.
func FromEnv() Config {
	return Config{
		Addr:            getEnv("QUOTEMANAGER_ADDR", ":8000"),
		DBDriver:        getEnv("QUOTEMANAGER_DB_DRIVER", "memory"),
		DBDSN:           os.Getenv("QUOTEMANAGER_DB_DSN"),
		AutoMigrate:     getEnvBool("QUOTEMANAGER_AUTO_MIGRATE", false),
		CatalogFiles:    splitList(os.Getenv("QUOTEMANAGER_CATALOG_FILES")),
		RefreshInterval: getEnv("QUOTEMANAGER_REFRESH_INTERVAL", "3600"),
		SessionTTL:      getEnvDuration("QUOTEMANAGER_SESSION_TTL", 30*time.Minute),
		LogLevel:        getEnv("QUOTEMANAGER_LOG_LEVEL", "info"),
		LogFormat:       getEnv("QUOTEMANAGER_LOG_FORMAT", "console"),
		AlertWebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),
		SendgridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFrom:        os.Getenv("QUOTEMANAGER_MAIL_FROM"),
	}
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

// getEnvDuration accepts Go durations ("45m") or plain seconds ("2700").
func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if secs := getEnvInt(key, -1); secs > 0 {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
