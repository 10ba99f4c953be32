package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress           string
	DatabaseURI          string
	DatabaseName         string
	NotificationEndpoint string
	BlacklistEndpoint    string
	ExternalTimeout      time.Duration
	NotifyDedupeTTL      time.Duration

	AuthStrategy string
	JWTSecret    string
	TokenTTL     time.Duration
	AppURL       string

	ReconcileSchedule string
	WorkerPoolSize    int
	ShutdownTimeout   time.Duration

	SMTP SMTPConfig
	Log  LogConfig

	TracingEndpoint   string
	TracingSampleRate float64

	Feed FeedConfig
}

// SMTPConfig configures outgoing mail. An empty Host disables delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// LogConfig configures the slog handler and the optional rotated file.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// FeedConfig configures the terminal feed client.
type FeedConfig struct {
	DashboardURL  string
	Token         string
	PollInterval  time.Duration
	AlertDuration time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultDatabaseName      = "orderdesk"
	defaultJWTSecret         = "change-me-in-production"
	defaultAuthStrategy      = "jwt"
	defaultTokenTTL          = 30 * 24 * time.Hour
	defaultExternalTimeout   = 10 * time.Second
	defaultNotifyDedupeTTL   = 10 * time.Minute
	defaultReconcileSchedule = "@every 5m"
	defaultWorkerPoolSize    = 2
	defaultShutdownTimeout   = 10 * time.Second
	defaultSMTPPort          = 587
	defaultLogLevel          = "info"
	defaultLogMaxSizeMB      = 50
	defaultLogMaxBackups     = 5
	defaultLogMaxAgeDays     = 30
	defaultSampleRate        = 1.0
	defaultDashboardURL      = "http://localhost:8080"
	defaultFeedPollInterval  = 10 * time.Second
	defaultFeedAlertDuration = 3 * time.Second
)

// Args are the command line flags handed to Load.
type Args []string

// Load parses server configuration from .env, environment variables and flags.
func Load(args Args) (*Config, error) {
	loadDotEnv(".env")
	return load(args, os.LookupEnv)
}

// LoadClient parses the subset used by the feed client; store and
// endpoints are not required.
func LoadClient(args []string) (*Config, error) {
	loadDotEnv(".env")
	return loadClient(args, os.LookupEnv)
}

// loadDotEnv never overrides variables already present in the environment.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

type envLookup func(string) (string, bool)

func defaults(lookup envLookup) *Config {
	return &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		DatabaseName:         getString(lookup, "DATABASE_NAME", defaultDatabaseName),
		NotificationEndpoint: getString(lookup, "NOTIFICATION_ENDPOINT", ""),
		BlacklistEndpoint:    getString(lookup, "BLACKLIST_ENDPOINT", ""),
		ExternalTimeout:      getDuration(lookup, "EXTERNAL_TIMEOUT", defaultExternalTimeout),
		NotifyDedupeTTL:      getDuration(lookup, "NOTIFY_DEDUPE_TTL", defaultNotifyDedupeTTL),
		AuthStrategy:         getString(lookup, "AUTH_STRATEGY", defaultAuthStrategy),
		JWTSecret:            getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:             getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		AppURL:               getString(lookup, "APP_URL", ""),
		ReconcileSchedule:    getString(lookup, "RECONCILE_SCHEDULE", defaultReconcileSchedule),
		WorkerPoolSize:       getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		SMTP: SMTPConfig{
			Host:     getString(lookup, "SMTP_HOST", ""),
			Port:     getInt(lookup, "SMTP_PORT", defaultSMTPPort),
			User:     getString(lookup, "SMTP_USER", ""),
			Password: getString(lookup, "SMTP_PASSWORD", ""),
			From:     getString(lookup, "SMTP_FROM", ""),
		},
		Log: LogConfig{
			Level:      getString(lookup, "LOG_LEVEL", defaultLogLevel),
			File:       getString(lookup, "LOG_FILE", ""),
			MaxSizeMB:  getInt(lookup, "LOG_FILE_MAX_SIZE_MB", defaultLogMaxSizeMB),
			MaxBackups: getInt(lookup, "LOG_FILE_MAX_BACKUPS", defaultLogMaxBackups),
			MaxAgeDays: getInt(lookup, "LOG_FILE_MAX_AGE_DAYS", defaultLogMaxAgeDays),
		},
		TracingEndpoint:   getString(lookup, "OTEL_EXPORTER_ENDPOINT", ""),
		TracingSampleRate: getFloat(lookup, "OTEL_SAMPLE_RATE", defaultSampleRate),
		Feed: FeedConfig{
			DashboardURL:  getString(lookup, "DASHBOARD_URL", defaultDashboardURL),
			Token:         getString(lookup, "DASHBOARD_TOKEN", ""),
			PollInterval:  getDuration(lookup, "FEED_POLL_INTERVAL", defaultFeedPollInterval),
			AlertDuration: getDuration(lookup, "FEED_ALERT_DURATION", defaultFeedAlertDuration),
		},
	}
}

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := defaults(lookup)

	fs := flag.NewFlagSet("orderdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		externalTimeoutStr = cfg.ExternalTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		tokenTTLStr        = cfg.TokenTTL.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN or MongoDB URI")
	fs.StringVar(&cfg.NotificationEndpoint, "n", cfg.NotificationEndpoint, "Order status notification endpoint")
	fs.StringVar(&cfg.BlacklistEndpoint, "b", cfg.BlacklistEndpoint, "Blacklist execution endpoint")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.AuthStrategy, "auth-strategy", cfg.AuthStrategy, "Token strategy: jwt or hmac")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Session token lifetime")
	fs.StringVar(&externalTimeoutStr, "external-timeout", externalTimeoutStr, "Timeout for external calls")
	fs.StringVar(&cfg.ReconcileSchedule, "reconcile-schedule", cfg.ReconcileSchedule, "Cron spec of the history reconciler")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent reconcile workers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ExternalTimeout, err = time.ParseDuration(externalTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid external timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if passwordFile, ok := lookup("SMTP_PASSWORD_FILE"); ok && passwordFile != "" {
		content, err := os.ReadFile(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("read smtp password file: %w", err)
		}
		cfg.SMTP.Password = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ExternalTimeout <= 0 {
		cfg.ExternalTimeout = defaultExternalTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.NotifyDedupeTTL < 0 {
		cfg.NotifyDedupeTTL = 0
	}

	if cfg.SMTP.Port <= 0 {
		cfg.SMTP.Port = defaultSMTPPort
	}

	if cfg.TracingSampleRate < 0 || cfg.TracingSampleRate > 1 {
		cfg.TracingSampleRate = defaultSampleRate
	}

	cfg.AuthStrategy = strings.ToLower(strings.TrimSpace(cfg.AuthStrategy))
	if cfg.AuthStrategy != "jwt" && cfg.AuthStrategy != "hmac" {
		return nil, fmt.Errorf("unknown auth strategy %q", cfg.AuthStrategy)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.NotificationEndpoint == "" {
		return nil, fmt.Errorf("notification endpoint must be provided")
	}

	if cfg.BlacklistEndpoint == "" {
		return nil, fmt.Errorf("blacklist endpoint must be provided")
	}

	return cfg, nil
}

func loadClient(args []string, lookup envLookup) (*Config, error) {
	cfg := defaults(lookup)

	fs := flag.NewFlagSet("orderdesk watch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		pollIntervalStr  = cfg.Feed.PollInterval.String()
		alertDurationStr = cfg.Feed.AlertDuration.String()
	)

	fs.StringVar(&cfg.Feed.DashboardURL, "url", cfg.Feed.DashboardURL, "Dashboard API base URL")
	fs.StringVar(&cfg.Feed.Token, "token", cfg.Feed.Token, "Bearer token for the dashboard API")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between feed refreshes")
	fs.StringVar(&alertDurationStr, "alert-duration", alertDurationStr, "How long the new order alert stays visible")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.Feed.PollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.Feed.AlertDuration, err = time.ParseDuration(alertDurationStr); err != nil {
		return nil, fmt.Errorf("invalid alert duration: %w", err)
	}

	if cfg.Feed.PollInterval <= 0 {
		cfg.Feed.PollInterval = defaultFeedPollInterval
	}

	if cfg.Feed.AlertDuration <= 0 {
		cfg.Feed.AlertDuration = defaultFeedAlertDuration
	}

	if cfg.Feed.DashboardURL == "" {
		return nil, fmt.Errorf("dashboard URL must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
