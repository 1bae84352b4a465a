// Package logger builds the application's slog.Logger: functional options
// for level and format, attribute constructors for the domain (organization,
// plan, resource), and a handler decorator that injects request-scoped values
// from context.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Environment, "gymgo"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	logger.SetAsDefault(log)
package logger
