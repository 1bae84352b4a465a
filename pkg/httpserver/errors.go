package httpserver

import "errors"

var (
	// ErrStart reports a failed listen or a second Run on the same server.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrShutdown reports that graceful shutdown did not complete in time.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
)
