// Package httpserver provides the admin HTTP server for regiond.
package httpserver

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/regionkv/regiond/internal/infra/tlsroots"
)

// Server represents the admin HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	certWatch  *tlsroots.Watcher
}

// New creates a new HTTP server.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		handler: handler,
	}
}

// UseTLSWatcher arms the server to serve TLS with a certificate sourced
// from w, reloaded on every change w observes. Call before ListenAndServe;
// the watcher's own background goroutine (via StartAsync) must be started
// separately so reloads keep happening for the server's lifetime.
func (s *Server) UseTLSWatcher(w *tlsroots.Watcher) {
	s.certWatch = w
	s.httpServer.TLSConfig = &tls.Config{
		GetCertificate: w.GetCertificate,
	}
}

// ListenAndServe starts the HTTP server, or the HTTPS server if
// UseTLSWatcher was called.
func (s *Server) ListenAndServe() error {
	if s.certWatch != nil {
		return s.httpServer.ListenAndServeTLS("", "")
	}
	return s.httpServer.ListenAndServe()
}

// ListenAndServeTLS starts the HTTPS server from an explicit cert/key
// pair, bypassing any watcher set via UseTLSWatcher.
func (s *Server) ListenAndServeTLS(certFile, keyFile string) error {
	return s.httpServer.ListenAndServeTLS(certFile, keyFile)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
