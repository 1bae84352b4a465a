// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts and health-check handlers.
//
// Run starts the server and blocks until the context is cancelled, an
// interrupt or TERM signal arrives, or the listener fails. Shutdown uses
// http.Server.Shutdown with a configurable deadline. Listen errors are
// wrapped with ErrStart and shutdown errors with ErrShutdown so callers
// can branch with errors.Is.
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log, pg.Healthcheck(pool)))
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
package httpserver
