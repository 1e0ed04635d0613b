package logger

import (
	"log/slog"
	"os"
)

// Config controls log output and the optional Sentry integration.
type Config struct {
	Level       slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string     `env:"SENTRY_DSN"`
	Environment string     `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// New creates a JSON logger writing to stdout. Context extractors run on
// every record and may attach request-scoped attributes such as request IDs.
func New(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	return slog.New(newContextHandler(h, extractors...))
}
