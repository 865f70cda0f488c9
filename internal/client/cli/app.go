package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/exporter"
	"github.com/dmitrijs2005/notekeeper/internal/client/localstore"
	"github.com/dmitrijs2005/notekeeper/internal/client/notes"
	"github.com/dmitrijs2005/notekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	local   *localstore.Store
	auth    services.AuthService
	remote  client.Client
	sink    exporter.Sink
	logger  logging.Logger
	now     func() time.Time
	reader  *bufio.Reader
	out     io.Writer
	storeFn func(remote notes.RemoteStore) *notes.Store

	mu   sync.RWMutex
	mode Mode

	store   *notes.Store
	session *client.Session
}

// NewApp opens the local database, connects the server client and builds
// the export sink described by c.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient, err := client.NewNoteKeeperClient(c.ServerEndpointAddr)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sink, err := exporter.New(ctx, exporter.Config{
		Dir: c.ExportDir,
		S3: exporter.S3Config{
			Bucket:    c.S3Bucket,
			Region:    c.S3Region,
			Endpoint:  c.S3Endpoint,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
		},
	})
	if err != nil {
		_ = apiClient.Close()
		_ = db.Close()
		return nil, err
	}

	return newApp(c, db, apiClient, sink, logger, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, db *sql.DB, remote client.Client, sink exporter.Sink, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Nop()
	}
	a := &App{
		config: c,
		db:     db,
		local:  localstore.New(db),
		auth:   services.NewAuthService(remote, metadata.NewSQLiteRepository(db)),
		remote: remote,
		sink:   sink,
		logger: logger.With("module", "cli"),
		now:    time.Now,
		reader: bufio.NewReader(in),
		out:    out,
		mode:   ModeOffline,
	}
	a.storeFn = func(r notes.RemoteStore) *notes.Store {
		return notes.NewStore(a.local, r, logger)
	}
	return a
}

func (a *App) Mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// Run starts the online watcher and blocks in the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.println("Welcome to notekeeper (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

func (a *App) Close() {
	if a.remote != nil {
		_ = a.remote.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) getStatus() string {
	s := ""
	if a.session != nil {
		s = a.session.Username + " "
	} else if a.store != nil {
		s = "guest "
	}
	s += string(a.Mode())
	return fmt.Sprintf("(%s)", s)
}
