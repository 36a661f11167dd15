// Package config reads Planify settings from the environment, with an
// optional .env file layered underneath.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppEnv    string
	LogLevel  string
	LogFormat string
	UserID    string

	DatabaseURL string
	SQLitePath  string
	RedisURL    string
	RabbitMQURL string

	LockBackend string
	LockTTL     time.Duration

	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxProcessorEnabled bool

	WorkerHealthAddr          string
	HousekeepingCron          string
	NotificationRetentionDays int

	MailProvider           string
	MailFromAddress        string
	MailFromName           string
	AWSRegion              string
	AWSAccessKeyID         string
	AWSSecretAccessKey     string
	MailBreakerMaxFailures uint32
	MailBreakerTimeout     time.Duration

	ResetTokenTTL time.Duration

	MCPAddr      string
	MCPAuthToken string
}

// Load builds a Config from the process environment. Variables already set
// win over the .env file. Malformed numeric, duration or boolean values are
// reported together in the returned error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	var e env
	cfg := &Config{
		AppEnv:    e.str("APP_ENV", "development"),
		LogLevel:  e.str("LOG_LEVEL", "info"),
		LogFormat: e.str("LOG_FORMAT", "text"),
		UserID:    e.str("PLANIFY_USER_ID", ""),

		DatabaseURL: e.str("DATABASE_URL", ""),
		SQLitePath:  e.str("SQLITE_PATH", ""),
		RedisURL:    e.str("REDIS_URL", ""),
		RabbitMQURL: e.str("RABBITMQ_URL", ""),

		LockBackend: e.str("LOCK_BACKEND", "memory"),
		LockTTL:     e.duration("LOCK_TTL", 30*time.Second),

		OutboxPollInterval:     e.duration("OUTBOX_POLL_INTERVAL", 100*time.Millisecond),
		OutboxBatchSize:        e.count("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       e.count("OUTBOX_MAX_RETRIES", 5),
		OutboxStatsInterval:    e.duration("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    e.count("OUTBOX_RETENTION_DAYS", 14),
		OutboxProcessorEnabled: e.flag("OUTBOX_PROCESSOR_ENABLED", true),

		WorkerHealthAddr:          e.str("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
		HousekeepingCron:          e.str("HOUSEKEEPING_CRON", "@daily"),
		NotificationRetentionDays: e.count("NOTIFICATION_RETENTION_DAYS", 30),

		MailProvider:           e.str("MAIL_PROVIDER", "noop"),
		MailFromAddress:        e.str("MAIL_FROM_ADDRESS", "no-reply@planify.local"),
		MailFromName:           e.str("MAIL_FROM_NAME", "Planify"),
		AWSRegion:              e.str("AWS_REGION", "eu-west-1"),
		AWSAccessKeyID:         e.str("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:     e.str("AWS_SECRET_ACCESS_KEY", ""),
		MailBreakerMaxFailures: uint32(e.count("MAIL_BREAKER_MAX_FAILURES", 5)),
		MailBreakerTimeout:     e.duration("MAIL_BREAKER_TIMEOUT", time.Minute),

		ResetTokenTTL: e.duration("RESET_TOKEN_TTL", 30*time.Minute),

		MCPAddr:      e.str("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: e.str("MCP_AUTH_TOKEN", ""),
	}
	if err := errors.Join(e.errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// IsDevelopment reports whether APP_ENV is "development".
func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// UsesSQLite reports whether no Postgres URL is configured.
func (c *Config) UsesSQLite() bool { return c.DatabaseURL == "" }

// env reads variables and remembers every one that failed to parse.
type env struct {
	errs []error
}

func (e *env) str(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func (e *env) count(key string, fallback int) int {
	return parse(e, key, fallback, func(v string) (int, error) {
		n, err := strconv.Atoi(v)
		if err == nil && n < 0 {
			err = errors.New("must not be negative")
		}
		return n, err
	})
}

func (e *env) duration(key string, fallback time.Duration) time.Duration {
	return parse(e, key, fallback, time.ParseDuration)
}

func (e *env) flag(key string, fallback bool) bool {
	return parse(e, key, fallback, strconv.ParseBool)
}

func parse[T any](e *env, key string, fallback T, conv func(string) (T, error)) T {
	raw := e.str(key, "")
	if raw == "" {
		return fallback
	}
	v, err := conv(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, raw, err))
		return fallback
	}
	return v
}
