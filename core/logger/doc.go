// Package logger builds structured slog loggers and carries the small set
// of attribute helpers shared across the daemon.
//
// New returns a ready *slog.Logger; options select level, output, format,
// and base attributes:
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttr(slog.String("app", "certsync")),
//	)
//	log.Info("certificate pass finished",
//		logger.Count("renewed", 2),
//		logger.Elapsed(start),
//	)
//
// Error returns an empty slog.Attr for a nil error, so call sites need no
// nil checks.
package logger
