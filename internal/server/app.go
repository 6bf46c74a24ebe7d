// Package server wires configuration, storage and services together and
// runs the HTTP API until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/dmitrijs2005/gophjournal/internal/server/config"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophjournal/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/gophjournal/internal/server/rest"
	"github.com/dmitrijs2005/gophjournal/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

// Seams for tests.
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	newRepositoryManager = repomanager.NewPostgresRepositoryManager

	connectRedis = func(ctx context.Context, url string) (*redis.Client, error) {
		opts, err := redis.ParseURL(url)
		if err != nil {
			return nil, err
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, err
		}
		return rdb, nil
	}
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *rest.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	// Without Redis the session is stateless; logout only clears the cookie.
	var revoked revokedtokens.Repository
	if c.RedisURL != "" {
		rdb, err := connectRedis(ctx, c.RedisURL)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.redis = rdb
		revoked = revokedtokens.NewRedisRepository(rdb)
		logger.Info(ctx, "token denylist enabled")
	}

	if !c.ExportEnabled() {
		logger.Info(ctx, "journal export disabled: no S3 bucket configured")
	}

	us := services.NewUserService(db, rm, revoked, c)
	es := services.NewEntryService(db, rm)
	xs := services.NewExportService(db, rm, c)
	sv := services.NewSessionVerifier(c.SecretKey, revoked)

	app.server = rest.NewHTTPServer(c, logger, us, es, xs, sv)
	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or the server fails, then
// releases the database and Redis connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) Close() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(context.Background(), "redis close error", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close error", "error", err)
		}
	}
}
