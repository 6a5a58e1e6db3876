// Package httpserver builds and drains the bridge's HTTP server.
package httpserver

import (
	"context"
	"net/http"
	"time"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 2 * time.Minute

	// ShutdownTimeout bounds the drain on SIGTERM.
	ShutdownTimeout = 10 * time.Second
)

// New builds the server. No WriteTimeout: sequential batch captures are
// legitimately long-running and every outbound leg carries its own deadline.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// Shutdown drains in-flight requests within the default grace period.
func Shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return server.Shutdown(ctx)
}
