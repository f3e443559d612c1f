// Package server wires the TaskKeeper server together: PostgreSQL with goose
// migrations, the services, object storage for exports, and the gRPC and
// HTTP endpoints.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	gs "github.com/dmitrijs2005/taskkeeper/internal/server/grpc"
	"github.com/dmitrijs2005/taskkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/dmitrijs2005/taskkeeper/internal/server/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// seams for tests
var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}

	runMigrations = func(ctx context.Context, m repomanager.RepositoryManager, db *sql.DB) error {
		return m.RunMigrations(ctx, db)
	}

	newObjectStore = func(ctx context.Context, c *config.Config) (services.ObjectStore, error) {
		return storage.NewS3Store(ctx, c)
	}
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	servers []runner
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := runMigrations(ctx, rm, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newObjectStore(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	us := services.NewUserService(db, rm, c)
	ts := services.NewTaskService(db, rm)
	ss := services.NewStatsService(db, rm)
	es := services.NewExportService(ts, store)

	return &App{
		config: c,
		logger: logger,
		db:     db,
		servers: []runner{
			gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ts, ss, es, c.SecretKey),
			httpapi.NewServer(c.EndpointAddrHTTP, db, logger),
		},
	}, nil
}

// Run serves until ctx is done or one of the servers fails; a failure stops
// the others. The database is closed on return.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, s := range app.servers {
		wg.Add(1)
		go func(s runner) {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, err.Error())
				once.Do(func() { firstErr = err })
				cancel()
			}
		}(s)
	}
	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}
