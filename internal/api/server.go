// Package api serves the dashboard over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Veraticus/mission-control/internal/api/apierrors"
	"github.com/Veraticus/mission-control/internal/api/handler"
	"github.com/Veraticus/mission-control/internal/api/middleware"
	"github.com/Veraticus/mission-control/internal/api/router"
	"github.com/Veraticus/mission-control/internal/certs"
	"github.com/justinas/alice"
)

// Config controls the listener.
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	TLS             TLSConfig     `mapstructure:"tls"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// TLSConfig serves HTTPS with a self-signed certificate kept in CertDir.
type TLSConfig struct {
	CertDir string `mapstructure:"cert_dir"`
	Enabled bool   `mapstructure:"enabled"`
}

// DefaultConfig listens on localhost:8501.
func DefaultConfig() Config {
	return Config{
		Host:            "localhost",
		Port:            "8501",
		ShutdownTimeout: 15 * time.Second,
	}
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// Server is the dashboard HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	config     Config
}

// New wires the routes and middleware chain.
func New(config Config, services handler.Services) (*Server, error) {
	if services.Dashboard == nil {
		return nil, errors.New("api: dashboard service is required")
	}
	if services.Logger == nil {
		services.Logger = slog.Default()
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = DefaultConfig().ShutdownTimeout
	}

	httpServer := &http.Server{
		Addr:              config.Addr(),
		Handler:           Handler(services),
		ReadHeaderTimeout: 2 * time.Second,
	}

	if config.TLS.Enabled {
		if config.TLS.CertDir == "" {
			return nil, errors.New("api: tls.cert_dir is required when tls is enabled")
		}
		tlsConfig, err := certs.NewStore(config.TLS.CertDir, config.Host).TLSConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to prepare certificate: %w", err)
		}
		httpServer.TLSConfig = tlsConfig
	}

	return &Server{
		httpServer: httpServer,
		logger:     services.Logger,
		config:     config,
	}, nil
}

// Scheme is https when TLS is enabled.
func (s *Server) Scheme() string {
	if s.httpServer.TLSConfig != nil {
		return "https"
	}
	return "http"
}

// Handler builds the routed and wrapped handler.
func Handler(services handler.Services) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Dashboard(services)...),
		router.WithRoutes(handler.Cache(services)...),
		router.WithRoutes(handler.History(services)...),
		router.WithRoutes(handler.Sync(services)...),
		router.NotFound(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apierrors.WriteError(w, apierrors.ErrNotFound, fmt.Sprintf("no route for %s", r.URL.Path))
		})),
		router.MethodNotAllowed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apierrors.WriteError(w, apierrors.ErrMethodNotAllowed, fmt.Sprintf("%s not allowed", r.Method))
		})),
	)

	middlewares := []alice.Constructor{
		middleware.Logging(logger),
		middleware.LogPanic(logger),
	}

	return alice.New(middlewares...).Then(rt)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.httpServer.Addr, "scheme", s.Scheme())
		var err error
		if s.httpServer.TLSConfig != nil {
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("starting graceful shutdown", "timeout", s.config.ShutdownTimeout)
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.logger.Info("server stopped")
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
