package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the roster
// service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	AdminPasswordHash string
	SessionTTL        time.Duration
	HomeCity          string
	LogLevel          string
	NATSURL           string
	SummarySubject    string
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; required values and unparseable
// entries are reported together so a misconfigured deployment fails with one
// complete message.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:       8080,
		SQLiteDSN:      "file:roster.db?_foreign_keys=on",
		SessionTTL:     24 * time.Hour,
		HomeCity:       "Москва",
		LogLevel:       "info",
		SummarySubject: "roster.summary",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROSTER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROSTER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROSTER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if hash := strings.TrimSpace(os.Getenv("ROSTER_ADMIN_PASSWORD_HASH")); hash == "" {
		missing = append(missing, "ROSTER_ADMIN_PASSWORD_HASH")
	} else {
		cfg.AdminPasswordHash = hash
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ROSTER_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ROSTER_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if city := strings.TrimSpace(os.Getenv("ROSTER_HOME_CITY")); city != "" {
		cfg.HomeCity = city
	}

	if level := strings.TrimSpace(os.Getenv("ROSTER_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	// Summary delivery is optional: without a NATS URL the report is only
	// logged.
	cfg.NATSURL = strings.TrimSpace(os.Getenv("ROSTER_NATS_URL"))
	if subject := strings.TrimSpace(os.Getenv("ROSTER_SUMMARY_SUBJECT")); subject != "" {
		cfg.SummarySubject = subject
	}

	if len(missing) > 0 || len(invalid) > 0 {
		return Config{}, loadError(missing, invalid)
	}
	return cfg, nil
}

func loadError(missing, invalid []string) error {
	parts := make([]string, 0, 2)
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required variables: %s", strings.Join(missing, ", ")))
	}
	if len(invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid values for: %s", strings.Join(invalid, ", ")))
	}
	return fmt.Errorf("config: %s", strings.Join(parts, "; "))
}
