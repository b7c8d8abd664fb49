// Package logger builds configured slog.Logger instances.
//
// It wraps log/slog with a small factory: pick a format (JSON for
// aggregation, text for development), a level, static attributes and
// optional context extractors that inject request-scoped values into every
// record. Domain attribute helpers (NotificationID, Channel, Attempt, ...)
// keep log keys consistent across the codebase.
//
//	log := logger.New(
//		logger.WithProduction("notifykit"),
//		logger.WithContextValue("request_id", requestIDKey),
//	)
//	log.Info("notification delivered", logger.NotificationID(n.ID))
package logger
