package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ternarybob/docqa/internal/app"
)

// Server serves the REST API and the /ws event stream
type Server struct {
	app    *app.App
	server *http.Server
}

// New creates the HTTP server for application. Nothing listens until Start.
func New(application *app.App) *Server {
	s := &Server{app: application}

	// No write timeout: Ask waits on the remote answer service and /ws connections are long-lived
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port),
		Handler:           s.withConditionalMiddleware(s.setupRoutes()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start listens on the configured address and serves until Shutdown.
// A bind failure is returned immediately.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	s.app.Logger.Info().
		Str("address", listener.Addr().String()).
		Int("ws_clients", s.app.WSHandler.ClientCount()).
		Msg("HTTP server listening")

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}
