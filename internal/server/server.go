package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/certs365/certify-server/internal/certify"
	certifyhandlers "github.com/certs365/certify-server/internal/certify/handlers"
	"github.com/certs365/certify-server/internal/config"
	"github.com/certs365/certify-server/internal/server/handlers"
	serverMiddleware "github.com/certs365/certify-server/internal/server/middleware"
	"github.com/certs365/certify-server/internal/version"
)

type Server struct {
	pool     *pgxpool.Pool
	config   *config.ServerEnvironment
	logger   *slog.Logger
	router   *chi.Mux
	issuer   *certify.Issuer
	verifier *certify.Verifier
}

// NewServer assembles the router from the issuance and verification
// workflows. pool is the optional audit log database and may be nil.
func NewServer(
	pool *pgxpool.Pool,
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
	issuer *certify.Issuer,
	verifier *certify.Verifier,
) (*Server, error) {
	if issuer == nil || verifier == nil {
		return nil, fmt.Errorf("issuer and verifier are required")
	}

	server := &Server{
		pool:     pool,
		config:   cfg,
		logger:   logger,
		router:   chi.NewRouter(),
		issuer:   issuer,
		verifier: verifier,
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(serverMiddleware.RequestLogging(s.logger))
	s.router.Use(serverMiddleware.SecurityHeaders(s.config.Environment))
	s.router.Use(serverMiddleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(serverMiddleware.RequestSizeLimit(s.config.MaxRequestBytes))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", handlers.HandleHealth)
	s.router.Get("/ready", handlers.HandleReadiness(s.pool))

	v := version.Get()
	s.router.Get("/version", handlers.HandleVersion(v.Version, v.BuildDate))

	s.router.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/issue", certifyhandlers.NewIssueHandler(s.issuer))
		r.Method(http.MethodPost, "/verify-decrypt", certifyhandlers.NewVerifyHandler(s.verifier))
	})
}

// Router exposes the assembled handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}

// DatabaseShutdown closes the audit log pool if one is configured.
func (s *Server) DatabaseShutdown() {
	if s.pool != nil {
		s.pool.Close()
		s.logger.Info("database connection closed")
	}
}
