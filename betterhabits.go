// Package betterhabits is the embedded persistence and synchronization
// layer for the Better Habits app: a durable local habit store, a
// merge/replace reconciliation engine, and a once-per-day sync against a
// remote backup target. UI collaborators construct one App at startup and
// call through it; there is no module-level shared state.
package betterhabits

import (
	"context"
	"fmt"

	"github.com/julianstephens/betterhabits/internal/config"
	"github.com/julianstephens/betterhabits/internal/keyring"
	"github.com/julianstephens/betterhabits/internal/logger"
	"github.com/julianstephens/betterhabits/internal/remote"
	"github.com/julianstephens/betterhabits/internal/storage"
	"github.com/julianstephens/betterhabits/internal/storage/sqlite"
	"github.com/julianstephens/betterhabits/internal/sync"
)

// App bundles the store, the remote backup client and the sync
// orchestrator behind one handle. Collaborators receive the App (or the
// individual fields) by injection rather than reaching for a singleton.
type App struct {
	Store  storage.Provider
	Remote remote.Store
	Syncer *sync.Syncer
}

// New constructs the App from configuration: opens (creating and
// migrating if needed) the local store and wires the configured remote
// backend. The returned App is ready for use; callers own Close.
func New(cfg config.Config) (*App, error) {
	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store := sqlite.NewStore(cfg.Storage.Path)
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	remoteStore, err := newRemote(cfg.Remote)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		Store:  store,
		Remote: remoteStore,
		Syncer: sync.NewSyncer(store, remoteStore),
	}, nil
}

// LoadConfig reads the YAML config at path with defaults and environment
// overrides applied. Re-exported so embedders need not import internal
// packages.
func LoadConfig(path string) (config.Config, error) {
	return config.Load(path)
}

// AutoSync runs the daily automatic pull-and-merge. Safe to call on every
// app startup; failures are reported in the result, never raised.
func (a *App) AutoSync(ctx context.Context) sync.SyncResult {
	return a.Syncer.AutoSyncIfNeeded(ctx)
}

func (a *App) Close() error {
	return a.Store.Close()
}

func newRemote(rc config.RemoteConfig) (remote.Store, error) {
	switch rc.Backend {
	case "s3":
		s3cfg := remote.S3Config{
			Endpoint:  rc.S3.Endpoint,
			Bucket:    rc.S3.Bucket,
			Region:    rc.S3.Region,
			AccessKey: rc.S3.AccessKey,
			SecretKey: rc.S3.SecretKey,
			UseSSL:    true,
		}
		if rc.S3.UseSSL != nil {
			s3cfg.UseSSL = *rc.S3.UseSSL
		}
		// Environment wins; the OS keyring is the at-rest fallback.
		if s3cfg.AccessKey == "" {
			if creds, err := keyring.GetCredentials(); err == nil {
				s3cfg.AccessKey = creds.AccessKey
				s3cfg.SecretKey = creds.SecretKey
			}
		}
		return remote.NewS3Store(s3cfg)
	case "dir":
		return remote.NewDirStore(rc.Dir), nil
	default:
		return remote.NoopStore{}, nil
	}
}
