// Package rest exposes the journal over HTTP: cookie sessions, JSON entry
// CRUD, the dashboard summary, export, settings and the page guard that
// fronts the presentation assets.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/server/auth"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/models"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type UserService interface {
	Register(ctx context.Context, email, password, name string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Logout(ctx context.Context, token string) error
	GetProfile(ctx context.Context, id auth.Identity, email string) (*models.User, error)
	UpdateProfileName(ctx context.Context, id auth.Identity, email, name string) (*models.User, error)
}

type EntryService interface {
	List(ctx context.Context, id auth.Identity, filter models.EntryFilter) ([]*models.Entry, error)
	Get(ctx context.Context, id auth.Identity, entryID string) (*models.Entry, error)
	Create(ctx context.Context, id auth.Identity, title, content, category string) (*models.Entry, error)
	Update(ctx context.Context, id auth.Identity, entryID, title, content, category string) (*models.Entry, error)
	Delete(ctx context.Context, id auth.Identity, entryID string) error
	Summary(ctx context.Context, id auth.Identity, days int) (*services.Summary, error)
}

type ExportService interface {
	Export(ctx context.Context, id auth.Identity) (*services.Export, error)
}

type SessionVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

// HTTPServer serves the journal API.
type HTTPServer struct {
	address  string
	config   *config.Config
	logger   logging.Logger
	users    UserService
	entries  EntryService
	exports  ExportService
	verifier SessionVerifier
	metrics  *Metrics
}

func NewHTTPServer(c *config.Config, l logging.Logger, us UserService, es EntryService, xs ExportService, v SessionVerifier) *HTTPServer {
	return &HTTPServer{
		address:  c.EndpointAddrHTTP,
		config:   c,
		logger:   l.With("module", "http_server"),
		users:    us,
		entries:  es,
		exports:  xs,
		verifier: v,
		metrics:  NewMetrics(),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
