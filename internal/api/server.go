// Package api hosts the HTTP server exposing the resolution engine.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"

	"github.com/roleatlas/roleatlas/internal/api/handlers"
	"github.com/roleatlas/roleatlas/internal/api/middleware"
	"github.com/roleatlas/roleatlas/internal/app/resolver"
	"github.com/roleatlas/roleatlas/internal/pkg/logger"
)

// Config holds server configuration.
type Config struct {
	Host    string
	Port    int
	Verbose bool
	Version string

	// RateLimitRPS caps requests per second per client IP; zero
	// selects the default.
	RateLimitRPS   float64
	RateLimitBurst int
}

const (
	defaultRateLimitRPS   = 10
	defaultRateLimitBurst = 20
)

// Server is the RoleAtlas API server.
type Server struct {
	config     Config
	router     *chi.Mux
	httpServer *http.Server

	leastPrivilegeHandler *handlers.LeastPrivilegeHandler
	rolesHandler          *handlers.RolesHandler
	operationsHandler     *handlers.OperationsHandler
}

// NewServer creates a server around an already-configured resolver.
func NewServer(cfg Config, svc *resolver.Service) *Server {
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = defaultRateLimitRPS
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = defaultRateLimitBurst
	}

	s := &Server{
		config:                cfg,
		leastPrivilegeHandler: handlers.NewLeastPrivilegeHandler(svc),
		rolesHandler:          handlers.NewRolesHandler(svc),
		operationsHandler:     handlers.NewOperationsHandler(svc),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.config.Verbose))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.BodyLimit(0))
	r.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))

	// CORS for frontend dev
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			render.JSON(w, r, map[string]string{
				"status":  "ok",
				"version": "v1",
			})
		})

		s.leastPrivilegeHandler.RegisterRoutes(r)
		s.rolesHandler.RegisterRoutes(r)
		s.operationsHandler.RegisterRoutes(r)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "healthy",
		"version": s.config.Version,
	})
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	logger.Info("Starting server", "host", s.config.Host, "port", s.config.Port)
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down server gracefully...")
	middleware.StopRateLimitCleanup()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the router for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
