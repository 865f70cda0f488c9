package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

func TestNewApp_OpenDBError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
		return nil, errors.New("refused")
	}

	_, err := NewApp(context.Background(), &config.Config{DatabaseDSN: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "db init error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	cfg := &config.Config{EndpointAddrGRPC: "127.0.0.1:0", HTTPAddr: "127.0.0.1:0", SecretKey: "k"}
	app := newApp(cfg, logging.Nop(), db, repomanager.NewPostgresRepositoryManager())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_GRPCFailureStopsApp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	cfg := &config.Config{EndpointAddrGRPC: "127.0.0.1:99999", SecretKey: "k"}
	app := newApp(cfg, logging.Nop(), db, repomanager.NewPostgresRepositoryManager())

	done := make(chan struct{})
	go func() {
		app.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after listen failure")
	}
}
