// Package web provides the HTTP server and handlers that expose an
// in-memory workspace of tables.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/flatframe/internal/config"
	"github.com/JonMunkholm/flatframe/internal/pgexport"
	mw "github.com/JonMunkholm/flatframe/internal/web/middleware"
)

// Server is the HTTP server for the table workspace.
type Server struct {
	cfg       *config.Config
	workspace *Workspace
	uploads   *uploadLimiter
	db        pgexport.Beginner // nil when export is disabled
	limiter   *mw.RateLimiter
	router    *chi.Mux
	server    *http.Server
}

// NewServer creates a new Server. db may be nil, in which case the export
// endpoint answers 503.
func NewServer(cfg *config.Config, db pgexport.Beginner) *Server {
	s := &Server{
		cfg:       cfg,
		workspace: NewWorkspace(cfg.Engine.MaxTables),
		uploads:   newUploadLimiter(cfg.Engine.MaxConcurrentUploads, cfg.Engine.UploadWait),
		db:        db,
		router:    chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		s.limiter = mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst)
		s.router.Use(s.limiter.Handler)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	// Pages
	s.router.Get("/tables/{id}", s.handlePreview)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/tables", s.handleUpload)
		r.Get("/tables", s.handleListTables)
		r.Post("/concat", s.handleConcat)

		r.Route("/tables/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTable)
			r.Delete("/", s.handleDeleteTable)
			r.Get("/csv", s.handleDownloadCSV)

			// Cells
			r.Get("/cells", s.handleGetCell)
			r.Put("/cells", s.handleReplaceCell)

			// Derived tables
			r.Post("/cut", s.handleCut)
			r.Post("/select", s.handleSelect)
			r.Post("/filter", s.handleFilter)
			r.Get("/statistics", s.handleStatistics)
			r.Post("/correlation", s.handleCorrelation)

			// In-place mutations
			r.Post("/sort", s.handleSort)
			r.Post("/shuffle", s.handleShuffle)
			r.Post("/rename", s.handleRename)

			r.Get("/unique", s.handleUnique)
			r.Post("/export", s.handleExport)
		})
	})
}

// Start begins listening for HTTP requests. It returns nil after Shutdown,
// including when Shutdown ran first.
func (s *Server) Start() error {
	slog.Info("starting server", "addr", s.server.Addr, "export", s.db != nil)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server and its background workers. Uploads
// still being parsed get until ctx expires to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.limiter != nil {
		s.limiter.Stop()
	}

	if st := s.uploads.status(); st.Active > 0 {
		slog.Info("waiting for uploads to complete", "active", st.Active)
		if err := s.uploads.waitIdle(ctx); err != nil {
			slog.Warn("uploads did not complete in time", "error", err)
		}
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Workspace returns the server's table workspace.
func (s *Server) Workspace() *Workspace {
	return s.workspace
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		// Preview pages carry inline styles only
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
