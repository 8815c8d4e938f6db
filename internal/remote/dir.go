package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/betterhabits/internal/constants"
	"github.com/julianstephens/betterhabits/internal/models"
)

// DirStore targets a local directory, typically one mirrored by a desktop
// cloud-sync client. It keeps the same single-canonical-file convention as
// the S3 adapter and hands out an opaque file ID (persisted in a sidecar)
// so callers never treat the file path as the identifier.
type DirStore struct {
	dir string
}

// NewDirStore builds a directory-backed backup store. An empty dir yields
// an unauthenticated store.
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (d *DirStore) IsAuthenticated() bool {
	return d.dir != ""
}

func (d *DirStore) folder() string {
	return filepath.Join(d.dir, constants.BackupFolderName)
}

func (d *DirStore) backupPath() string {
	return filepath.Join(d.folder(), constants.BackupFileName)
}

func (d *DirStore) idPath() string {
	return filepath.Join(d.folder(), ".backup-id")
}

// fileID returns the stable opaque ID for the backup file, generating and
// persisting one on first use.
func (d *DirStore) fileID() (string, error) {
	data, err := os.ReadFile(d.idPath())
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", err
	}

	id := uuid.NewString()
	if err := os.MkdirAll(d.folder(), 0700); err != nil {
		return "", err
	}
	if err := os.WriteFile(d.idPath(), []byte(id+"\n"), 0600); err != nil {
		return "", err
	}
	return id, nil
}

func (d *DirStore) ListBackups(ctx context.Context) ([]BackupFile, error) {
	if !d.IsAuthenticated() {
		return nil, ErrAuthRequired
	}

	info, err := os.Stat(d.backupPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupFile{}, nil
		}
		return nil, fmt.Errorf("list backups: %w", err)
	}

	id, err := d.fileID()
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	return []BackupFile{{
		ID:           id,
		Name:         constants.BackupFileName,
		ModifiedTime: info.ModTime(),
	}}, nil
}

func (d *DirStore) Upload(ctx context.Context, payload models.BackupPayload) (BackupFile, error) {
	if !d.IsAuthenticated() {
		return BackupFile{}, ErrAuthRequired
	}

	if err := os.MkdirAll(d.folder(), 0700); err != nil {
		return BackupFile{}, fmt.Errorf("create backup folder: %w", err)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return BackupFile{}, fmt.Errorf("serialize backup: %w", err)
	}

	// Write-then-rename so a crash mid-write never corrupts the previous
	// backup.
	tmp := d.backupPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return BackupFile{}, fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, d.backupPath()); err != nil {
		_ = os.Remove(tmp)
		return BackupFile{}, fmt.Errorf("write backup: %w", err)
	}

	id, err := d.fileID()
	if err != nil {
		return BackupFile{}, err
	}

	return BackupFile{
		ID:           id,
		Name:         constants.BackupFileName,
		ModifiedTime: time.Now(),
	}, nil
}

func (d *DirStore) Download(ctx context.Context, id string) (models.BackupPayload, error) {
	if !d.IsAuthenticated() {
		return models.BackupPayload{}, ErrAuthRequired
	}

	knownID, err := d.fileID()
	if err != nil {
		return models.BackupPayload{}, err
	}
	if id != knownID {
		return models.BackupPayload{}, ErrNotFound
	}

	data, err := os.ReadFile(d.backupPath())
	if err != nil {
		if os.IsNotExist(err) {
			return models.BackupPayload{}, ErrNotFound
		}
		return models.BackupPayload{}, fmt.Errorf("download backup: %w", err)
	}

	var payload models.BackupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return models.BackupPayload{}, fmt.Errorf("parse backup: %w", err)
	}

	return payload, nil
}

func (d *DirStore) DeleteAll(ctx context.Context) (DeleteResult, error) {
	if !d.IsAuthenticated() {
		return DeleteResult{}, ErrAuthRequired
	}

	result := DeleteResult{}
	if err := os.Remove(d.backupPath()); err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", constants.BackupFileName, err))
		return result, nil
	}
	result.DeletedCount++

	// The sidecar only matters while a backup exists.
	_ = os.Remove(d.idPath())

	return result, nil
}
