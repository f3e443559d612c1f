package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskkeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopStore struct{ services.ObjectStore }

func stubSeams(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	origOpen, origMigrate, origStore := openDB, runMigrations, newObjectStore
	t.Cleanup(func() {
		openDB, runMigrations, newObjectStore = origOpen, origMigrate, origStore
	})

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	openDB = func(dsn string) (*sql.DB, error) { return db, nil }
	runMigrations = func(ctx context.Context, m repomanager.RepositoryManager, db *sql.DB) error { return nil }
	newObjectStore = func(ctx context.Context, c *config.Config) (services.ObjectStore, error) { return nopStore{}, nil }
	return mock
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	return c
}

func TestNewApp_OpenError(t *testing.T) {
	stubSeams(t)
	openDB = func(dsn string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db open error")
}

func TestNewApp_MigrationError(t *testing.T) {
	mock := stubSeams(t)
	mock.ExpectClose()
	runMigrations = func(ctx context.Context, m repomanager.RepositoryManager, db *sql.DB) error {
		return errors.New("boom")
	}

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_StorageError(t *testing.T) {
	mock := stubSeams(t)
	mock.ExpectClose()
	newObjectStore = func(ctx context.Context, c *config.Config) (services.ObjectStore, error) {
		return nil, errors.New("no s3")
	}

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "object storage init error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	mock := stubSeams(t)
	mock.ExpectClose()

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_ServerFailureStopsApp(t *testing.T) {
	mock := stubSeams(t)
	mock.ExpectClose()

	c := testConfig()
	c.EndpointAddrGRPC = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after a server failed")
	}
}
