// Package logger provides structured logging built on the standard
// log/slog package: a small factory for environment-specific loggers plus
// typed attribute helpers used across the toolkit.
//
// # Usage
//
//	log := logger.New(logger.WithDevelopment("myapp"))
//
//	log.Info("Server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
//	log := logger.New(
//		logger.WithProduction("myapp"),
//		logger.WithLevel(slog.LevelWarn),
//	)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil/empty input, so call sites never
// need nil checks:
//
//	log.Warn("request rejected",
//		logger.Method(r.Method),
//		logger.Path(r.URL.Path),
//		logger.Reason("csrf_token_missing"),
//		logger.Error(err), // drops out silently when err == nil
//	)
package logger
