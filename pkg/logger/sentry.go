package logger

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig enables error reporting. Release is usually APP_VERSION so
// events can be matched to the deployed locale cache.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string `env:"APP_VERSION"`
	// Warn sends warnings as searchable logs in addition to errors.
	Warn bool `env:"SENTRY_LOG_WARNINGS" envDefault:"true"`
}

func newSentryHandler(cfg SentryConfig, fallback slog.Handler) (slog.Handler, bool) {
	if cfg.DSN == "" {
		return nil, false
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	}); err != nil {
		_ = fallback.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelError, "sentry init failed: "+err.Error(), 0))
		return nil, false
	}

	logLevels := []slog.Level{slog.LevelError}
	if cfg.Warn {
		logLevels = []slog.Level{slog.LevelWarn, slog.LevelError}
	}

	return sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background()), true
}

// Flush waits for buffered Sentry events; register as a shutdown hook.
func Flush(timeout time.Duration) func(context.Context) error {
	return func(context.Context) error {
		sentry.Flush(timeout)
		return nil
	}
}
