// Package server provides HTTP server management and lifecycle handling for
// the vetdose API. It includes server setup, middleware configuration, route
// management, and graceful shutdown capabilities.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vetdose/vetdose-api/config"
	"github.com/vetdose/vetdose-api/handlers"
	"github.com/vetdose/vetdose-api/health"
	"github.com/vetdose/vetdose-api/interfaces"
	"github.com/vetdose/vetdose-api/logging"
	"github.com/vetdose/vetdose-api/metrics"
	"github.com/vetdose/vetdose-api/validation"
)

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	router  chi.Router
	store   interfaces.CatalogStore
	handler interfaces.HTTPHandler
	config  *config.Config
}

// NewServer creates a new server instance wired to the given catalog store
func NewServer(cfg *config.Config, store interfaces.CatalogStore) *Server {
	router := chi.NewRouter()

	handler := handlers.NewHTTPHandler(
		store,
		validation.NewCatalogValidator(),
		health.NewHealthChecker(store),
	)

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:  router,
		store:   store,
		handler: handler,
		config:  cfg,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.DefaultLoggingService.Logger))
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(RateLimitHandler)
	s.router.Use(metrics.Metrics)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/catalog", s.handler.ServeCatalog)
	s.router.Get("/catalog/{pageNumber}", s.handler.ServePagedCatalog)
	s.router.Post("/catalog", s.handler.UploadCatalog)
	s.router.Get("/search/{query}", s.handler.SearchMedications)
	s.router.Get("/table", s.handler.ServeTable)
	s.router.Get("/medication/{id}", s.handler.FindMedicationByID)
	s.router.Get("/suggest/{id}/{species}", s.handler.SuggestDose)
	s.router.Post("/dose/{id}", s.handler.ComputeDose)
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Start starts the server
func (s *Server) Start() error {
	// Start profiling server if in development mode
	if s.config.Env == "dev" {
		s.startProfilingServer()
	}

	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	// Wait a bit for any ongoing requests to complete
	logging.Info("Waiting for ongoing requests to complete...")
	time.Sleep(2 * time.Second)

	logging.Info("Server shutdown complete")
	return nil
}

// startProfilingServer starts the pprof profiling server in development mode
func (s *Server) startProfilingServer() {
	go func() {
		fmt.Println("Profiling server started at http://localhost:6060/debug/pprof/")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			fmt.Println("Profiling server failed: ", err)
		}
	}()
}
