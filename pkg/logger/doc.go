// Package logger builds the application's slog loggers.
//
// New returns a JSON stdout logger; NewWithSentry additionally forwards
// warnings and errors to Sentry when SENTRY_DSN is set. Both accept
// ContextExtractor functions that enrich every record with request-scoped
// attributes:
//
//	log := logger.NewWithSentry(cfg, func(ctx context.Context) (slog.Attr, bool) {
//		id, ok := ctx.Value(requestIDKey).(string)
//		return slog.String("request_id", id), ok
//	})
package logger
