package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eduquest/client/internal/bootstrap"
	"github.com/eduquest/client/internal/config"
)

// Server serves the view layer over HTTP.
type Server struct {
	config *config.Config
	deps   *bootstrap.Dependencies
	router *gin.Engine
	logger zerolog.Logger
	http   *http.Server
}

// NewServer creates a server around already built dependencies.
// The server owns deps from here on and closes them on Shutdown.
func NewServer(deps *bootstrap.Dependencies) (*Server, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("server: dependencies are required")
	}

	s := &Server{
		config: deps.Config,
		deps:   deps,
		router: bootstrap.SetupRouter(deps.Config, deps),
		logger: deps.Logger.With().Str("component", "server").Logger(),
	}
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr is the listen address derived from server.port
func (s *Server) Addr() string {
	return net.JoinHostPort("", s.config.Server.Port)
}

// Run starts the HTTP server and blocks until ctx is done, an OS signal
// arrives or the listener fails. It always shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         s.Addr(),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Str("api", s.config.API.BaseURL).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	case <-ctx.Done():
		s.logger.Info().Msg("Context cancelled, initiating shutdown...")
	}

	if err := s.Shutdown(context.Background()); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown gracefully stops the server and closes the session backend.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error

	if s.http != nil {
		s.logger.Debug().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			errs = append(errs, err)
		}
	}

	if err := s.deps.Close(); err != nil {
		s.logger.Error().Err(err).Msg("Session storage close error")
		errs = append(errs, err)
	}

	s.logger.Info().Msg("Server shutdown complete")
	if len(errs) > 0 {
		return fmt.Errorf("server shutdown completed with errors: %w", errors.Join(errs...))
	}
	return nil
}
