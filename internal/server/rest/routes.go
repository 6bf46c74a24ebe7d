package rest

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// guardedPages are presentation routes that need a session.
var guardedPages = []string{"/journal", "/dashboard", "/settings", "/summary"}

// Handler builds the router with all middleware and routes.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if s.config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.RequestTimeout))
	}

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(s.handleNotFound)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Post("/api/auth/signup", s.handleSignup)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/logout", s.handleLogout)
	r.Get("/api/auth/session", s.handleSession)

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/api/auth/journal", s.handleListEntries)
		r.Post("/api/auth/journal", s.handleCreateEntry)
		r.Put("/api/auth/journal", s.handleUpdateEntry)
		r.Delete("/api/auth/journal", s.handleDeleteEntry)
		r.Get("/api/auth/journal/summary", s.handleSummary)
		r.Post("/api/auth/journal/export", s.handleExport)
		r.Get("/api/auth/journal/{id}", s.handleGetEntry)

		r.Get("/api/auth/settings", s.handleGetSettings)
		r.Post("/api/auth/settings", s.handleUpdateSettings)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.pageGuard)
		for _, p := range guardedPages {
			r.Get(p, s.serveStatic)
			r.Get(p+"/*", s.serveStatic)
		}
	})

	return r
}

// isGuardedPage reports whether p is, or lies below, a guarded page. The
// router matches case-sensitively, so variants such as /Journal arrive at the
// not-found handler and are checked here.
func isGuardedPage(p string) bool {
	p = strings.ToLower(path.Clean("/" + p))
	for _, g := range guardedPages {
		if p == g || strings.HasPrefix(p, g+"/") {
			return true
		}
	}
	return false
}

func (s *HTTPServer) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet && isGuardedPage(r.URL.Path) {
		s.pageGuard(http.HandlerFunc(s.serveStatic)).ServeHTTP(w, r)
		return
	}
	if r.Method == http.MethodGet && !strings.HasPrefix(r.URL.Path, "/api/") && s.config.StaticDir != "" {
		s.serveStatic(w, r)
		return
	}
	writeMessage(w, http.StatusNotFound, "Not found")
}

// serveStatic serves a file from StaticDir, falling back to index.html for
// client-side routes.
func (s *HTTPServer) serveStatic(w http.ResponseWriter, r *http.Request) {
	if s.config.StaticDir == "" {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}

	name := filepath.Join(s.config.StaticDir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if info, err := os.Stat(name); err != nil || info.IsDir() {
		name = filepath.Join(s.config.StaticDir, "index.html")
	}
	if _, err := os.Stat(name); err != nil {
		writeMessage(w, http.StatusNotFound, "Not found")
		return
	}
	http.ServeFile(w, r, name)
}
