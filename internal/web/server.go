// Package web provides the HTTP server and handlers for the table editor.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/JonMunkholm/tableman/internal/config"
	"github.com/JonMunkholm/tableman/internal/core"
	mw "github.com/JonMunkholm/tableman/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// errRateLimited is mapped to RATE001 by core.MapError.
var errRateLimited = errors.New("rate limit exceeded")

// Server is the HTTP server for the table editor.
type Server struct {
	store    *core.Store
	imports  *core.ImportLimiter
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
	limiters []*mw.RateLimiter
}

// NewServer wires routes and middleware around store.
func NewServer(store *core.Store, imports *core.ImportLimiter, cfg *config.Config) *Server {
	s := &Server{
		store:   store,
		imports: imports,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(mw.SecurityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(s.rateLimit(s.cfg.Rate.RequestsPerMinute))
	}
}

func (s *Server) rateLimit(perMinute int) func(http.Handler) http.Handler {
	rl := mw.NewRateLimiter(perMinute, time.Minute)
	s.limiters = append(s.limiters, rl)
	return rl.Middleware(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errRateLimited, http.StatusTooManyRequests)
	})
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/table/{slot}", s.handleTableView)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(s.cfg.Security.RequireAPIKey, s.cfg.Security.APIKeys))

		r.Get("/tables", s.handleListTables)

		// Store-wide actions
		r.Post("/undo", s.handleUndoAll)
		r.Post("/save", s.handleSaveAll)

		r.Route("/tables/{slot}", func(r chi.Router) {
			r.Get("/", s.handleGetTable)
			r.Put("/", s.handleCommitEdit)

			// Edits
			r.Post("/cells", s.handleSetCell)
			r.Post("/rows", s.handleAppendRow)
			r.Post("/rows/delete", s.handleDeleteRows)
			r.Post("/columns", s.handleAddColumn)
			r.Post("/columns/delete", s.handleDeleteColumns)

			// File import
			r.Group(func(r chi.Router) {
				if s.cfg.Rate.Enabled && s.cfg.Rate.UploadLimit > 0 {
					r.Use(s.rateLimit(s.cfg.Rate.UploadLimit))
				}
				r.Post("/import", s.handleImport)
				r.Post("/import/preview", s.handleImportPreview)
			})

			// Derived views
			r.Get("/filter-options", s.handleFilterOptions)
			r.Post("/filter", s.handleFilter)
			r.Post("/sort", s.handleSort)

			r.Post("/undo", s.handleUndo)
			r.Post("/save", s.handleSave)
			r.Get("/export", s.handleExport)
			r.Get("/history", s.handleHistory)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and its rate limiters.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.Stop()
	}
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are only logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
