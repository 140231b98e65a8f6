// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "composition root": the runner and explainer variants
// are chosen in main, handed to New, and wired to the service layer
// and routes here. Nothing below this package decides which concrete
// implementation it is talking to.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/code-runner/internal/explain"
	"github.com/sakif/code-runner/internal/handler"
	"github.com/sakif/code-runner/internal/middleware"
	sqliteRepo "github.com/sakif/code-runner/internal/repository/sqlite"
	"github.com/sakif/code-runner/internal/runner"
	"github.com/sakif/code-runner/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port      int
	StaticDir string // directory holding the optional bundled frontend
	DBPath    string // path to the SQLite run-history database
}

// Server owns the router and the resources that must be released on
// shutdown (the run-history database).
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → RunRepository
//	runner + explainer + repository → RunService
//	RunService → RunHandler → routes
//
// The runner and explainer are created by the caller (main) because
// choosing them — subprocess vs docker, fallback vs remote — is a
// startup configuration decision, made once per process.
func New(cfg Config, logger *slog.Logger, run runner.Runner, explainer explain.Explainer) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	s.setupRoutes(run, explainer)

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET    /               → bundled frontend (or status JSON)
// GET    /health         → status JSON
// POST   /run            → execute code, return result + explanation
// GET    /api/runs       → recent run history (JSON)
// GET    /api/runs/{id}  → single run record (JSON)
// GET    /static/*       → frontend assets
//
// Middleware runs in registration order: request ID, real IP, panic
// recovery, then request logging.
func (s *Server) setupRoutes(run runner.Runner, explainer explain.Explainer) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	rootHandler := handler.NewRootHandler(s.config.StaticDir)
	s.router.Get("/", rootHandler.HandleRoot)
	s.router.Get("/health", handler.HandleHealth)

	runService := service.NewRunService(run, explainer, s.db, s.logger)
	runHandler := handler.NewRunHandler(runService, s.logger)
	s.router.Post("/run", runHandler.HandleRun)

	runsHandler := handler.NewRunsHandler(s.db, s.logger)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/runs", runsHandler.HandleList)
		r.Get("/runs/{id}", runsHandler.HandleGetByID)
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds (a run can legitimately take up to 60s of child-process
// time, but the write deadline below caps the response anyway), then
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.config.Port),
		Handler: s.router,
		// A run may block for its full timeout (up to 60s) before the
		// response is written, so the write timeout must sit above
		// the maximum execution deadline.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
