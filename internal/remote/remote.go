// Package remote defines the backup object-store contract the sync layer
// depends on, plus the shipped adapters. Exactly one backup entry exists
// per account: Upload overwrites the canonical file, it never accumulates
// dated copies.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/betterhabits/internal/models"
)

var (
	// ErrAuthRequired is returned for remote operations attempted without
	// a valid credential. The orchestrator treats it as a skip, not a
	// crash.
	ErrAuthRequired = errors.New("remote authentication required")

	// ErrNotConfigured is returned by the noop store when no backup
	// backend is configured.
	ErrNotConfigured = errors.New("remote backup storage not configured")

	// ErrNotFound is returned when the requested backup does not exist.
	ErrNotFound = errors.New("backup not found")
)

// BackupFile describes the remote backup entry.
type BackupFile struct {
	ID           string
	Name         string
	ModifiedTime time.Time
}

// DeleteResult reports the outcome of DeleteAll.
type DeleteResult struct {
	DeletedCount int
	Errors       []string
}

// Store is a capability-scoped backup client. Implementations own their
// credential lifecycle; the core only ever asks whether the client is
// ready.
type Store interface {
	// IsAuthenticated reports whether the client holds a usable
	// credential. No remote call is made.
	IsAuthenticated() bool

	// ListBackups returns the canonical backup entry, or an empty slice
	// when no backup exists yet.
	ListBackups(ctx context.Context) ([]BackupFile, error)

	// Upload creates or overwrites the canonical backup entry.
	Upload(ctx context.Context, payload models.BackupPayload) (BackupFile, error)

	// Download fetches and decodes the backup with the given ID.
	Download(ctx context.Context, id string) (models.BackupPayload, error)

	// DeleteAll removes the backup entry. Missing entries are not an
	// error; per-file failures are collected in the result.
	DeleteAll(ctx context.Context) (DeleteResult, error)
}

// NoopStore is used when no backup backend is configured. It is never
// authenticated, so the orchestrator skips sync entirely.
type NoopStore struct{}

func (NoopStore) IsAuthenticated() bool { return false }

func (NoopStore) ListBackups(ctx context.Context) ([]BackupFile, error) {
	return nil, ErrNotConfigured
}

func (NoopStore) Upload(ctx context.Context, payload models.BackupPayload) (BackupFile, error) {
	return BackupFile{}, ErrNotConfigured
}

func (NoopStore) Download(ctx context.Context, id string) (models.BackupPayload, error) {
	return models.BackupPayload{}, ErrNotConfigured
}

func (NoopStore) DeleteAll(ctx context.Context) (DeleteResult, error) {
	return DeleteResult{}, ErrNotConfigured
}
