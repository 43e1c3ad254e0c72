package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/iudanet/schoolsync/internal/client/api"
	"github.com/iudanet/schoolsync/internal/client/data"
	"github.com/iudanet/schoolsync/internal/client/indicator"
	"github.com/iudanet/schoolsync/internal/client/iocli"
	"github.com/iudanet/schoolsync/internal/client/network"
	"github.com/iudanet/schoolsync/internal/client/progress"
	"github.com/iudanet/schoolsync/internal/client/storage"
	"github.com/iudanet/schoolsync/internal/client/storage/boltdb"
	syncengine "github.com/iudanet/schoolsync/internal/client/sync"
	"github.com/iudanet/schoolsync/internal/config"
)

const defaultProbeTimeout = 5 * time.Second

// Cli holds everything a command needs. Commands are methods named runX so
// tests can build a Cli from mocks and call them directly.
type Cli struct {
	io       iocli.IO
	logger   *slog.Logger
	queue    storage.QueueStorage
	metadata storage.MetadataStorage
	auth     storage.AuthStorage
	client   api.ClientAPI

	dataService data.Service
	engine      syncengine.Engine
	tracker     *progress.Tracker
	observer    *network.Observer

	serverURL    string
	lockPath     string
	probeTimeout time.Duration
	now          func() time.Time

	// forceOffline makes writes go straight to the queue
	forceOffline bool

	closeFn func() error
}

// Open wires the local queue, the API client and the sync machinery from cfg.
func Open(ctx context.Context, cfg *config.Config, out iocli.IO, logger *slog.Logger) (*Cli, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dbPath := cfg.Client.DBPath
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	// Файл открывается на каждую операцию: watch и разовые команды
	// работают с одной очередью одновременно
	store, err := boltdb.NewShared(ctx, dbPath,
		boltdb.WithNamespace(cfg.Client.Namespace),
		boltdb.WithLogger(logger),
		boltdb.WithOpenTimeout(cfg.LockTimeout()),
		boltdb.WithRecoverAfter(2*cfg.ItemTimeout()+cfg.LockTimeout()),
	)
	if errors.Is(err, storage.ErrStorageLocked) {
		return nil, fmt.Errorf("local queue %s is locked by another process: %w", dbPath, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open local queue %s: %w", dbPath, err)
	}

	var auth storage.AuthStorage = store
	if cfg.Client.AccessToken != "" {
		auth = &configToken{AuthStorage: store, token: cfg.Client.AccessToken}
	}

	client := api.NewClient(cfg.Client.ServerURL, api.WithTimeout(cfg.RequestTimeout()))
	tracker := progress.NewTracker()

	engine := syncengine.NewEngine(store, client, syncengine.Options{
		Logger:      logger,
		Tracker:     tracker,
		Auth:        auth,
		Metadata:    store,
		ItemTimeout: cfg.ItemTimeout(),
	})

	observer := network.NewObserver(engine, network.Options{
		Logger:          logger,
		Prober:          network.ProberFunc(client.Health),
		ProbeInterval:   cfg.ProbeInterval(),
		ProbeTimeout:    cfg.ProbeTimeout(),
		SkipInitialSync: !cfg.Sync.SyncOnStart,
	})

	c := &Cli{
		io:           out,
		logger:       logger,
		queue:        store,
		metadata:     store,
		auth:         auth,
		client:       client,
		engine:       engine,
		tracker:      tracker,
		observer:     observer,
		serverURL:    cfg.Client.ServerURL,
		lockPath:     dbPath + ".lock",
		probeTimeout: cfg.ProbeTimeout(),
		now:          time.Now,
		closeFn:      store.Close,
	}
	c.dataService = data.NewService(store, client, data.Options{
		Logger:       logger,
		Auth:         auth,
		Connectivity: onlineFunc(func() bool { return !c.forceOffline }),
		Timeout:      cfg.RequestTimeout(),
	})

	logger.Debug("Client opened",
		"db", filepath.Clean(dbPath),
		"namespace", store.Namespace(),
		"server", cfg.Client.ServerURL)
	return c, nil
}

// Close releases the local queue.
func (c *Cli) Close() error {
	if c.closeFn == nil {
		return nil
	}
	err := c.closeFn()
	c.closeFn = nil
	return err
}

func (c *Cli) newIndicator() *indicator.Indicator {
	return indicator.New(c.io, c.engine, indicator.Options{Logger: c.logger})
}

// connectivity runs one health probe. The observer is not used here because
// its first online observation starts a background pass.
func (c *Cli) connectivity(ctx context.Context) network.Status {
	if c.client == nil {
		return network.StatusUnknown
	}
	timeout := c.probeTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := c.client.Health(probeCtx); err != nil {
		c.log().Debug("Health probe failed", "error", err)
		return network.StatusOffline
	}
	return network.StatusOnline
}

func (c *Cli) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

func (c *Cli) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

// onlineFunc adapts a func to data.Connectivity.
type onlineFunc func() bool

func (f onlineFunc) Online() bool { return f() }

// configToken serves the token from configuration ahead of the stored one.
type configToken struct {
	storage.AuthStorage
	token string
}

func (a *configToken) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	authData := &storage.AuthData{AccessToken: a.token}
	if exp, sub, ok := tokenClaims(a.token); ok {
		authData.ExpiresAt = exp
		authData.Subject = sub
	}
	return authData, nil
}

// storedAuth returns nil without error when no token is saved.
func (c *Cli) storedAuth(ctx context.Context) (*storage.AuthData, error) {
	if c.auth == nil {
		return nil, nil
	}
	authData, err := c.auth.GetAuth(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	return authData, nil
}
