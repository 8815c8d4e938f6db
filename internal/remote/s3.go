package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/julianstephens/betterhabits/internal/constants"
	"github.com/julianstephens/betterhabits/internal/logger"
	"github.com/julianstephens/betterhabits/internal/models"
)

// S3Config holds connection settings for an S3-compatible backup target.
type S3Config struct {
	Endpoint  string
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// objectClient is the minimal object-store surface S3Store needs. Kept as
// an interface so tests can run against an in-memory fake.
type objectClient interface {
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	// StatObject returns the object's last-modified time, or ErrNotFound.
	StatObject(ctx context.Context, bucket, key string) (time.Time, error)
	RemoveObject(ctx context.Context, bucket, key string) error
}

// minioClientWrapper adapts *minio.Client to objectClient and maps
// missing-key responses to ErrNotFound.
type minioClientWrapper struct {
	client *minio.Client
}

func (w *minioClientWrapper) PutObject(ctx context.Context, bucket, key string, data []byte) error {
	_, err := w.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	return err
}

func (w *minioClientWrapper) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := w.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return data, nil
}

func (w *minioClientWrapper) StatObject(ctx context.Context, bucket, key string) (time.Time, error) {
	info, err := w.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return time.Time{}, mapMinioErr(err)
	}
	return info.LastModified, nil
}

func (w *minioClientWrapper) RemoveObject(ctx context.Context, bucket, key string) error {
	return w.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

func mapMinioErr(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
		return ErrNotFound
	}
	return err
}

// S3Store keeps the canonical backup under
// <bucket>/better-habits/better-habits-backup.json; the prefix stands in
// for the folder the original Drive layout used.
type S3Store struct {
	client objectClient
	bucket string
	authed bool
}

// NewS3Store builds an S3-backed backup store. An empty access key yields
// an unauthenticated store: operations fail with ErrAuthRequired and the
// orchestrator skips sync.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	if cfg.AccessKey == "" {
		return &S3Store{authed: false}, nil
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create S3 client: %w", err)
	}

	return &S3Store{
		client: &minioClientWrapper{client: client},
		bucket: cfg.Bucket,
		authed: true,
	}, nil
}

func (s *S3Store) IsAuthenticated() bool {
	return s.authed
}

func backupKey() string {
	return constants.BackupFolderName + "/" + constants.BackupFileName
}

func (s *S3Store) ListBackups(ctx context.Context) ([]BackupFile, error) {
	if !s.authed {
		return nil, ErrAuthRequired
	}

	modified, err := s.client.StatObject(ctx, s.bucket, backupKey())
	if err != nil {
		if err == ErrNotFound {
			return []BackupFile{}, nil
		}
		return nil, fmt.Errorf("list backups: %w", err)
	}

	return []BackupFile{{
		ID:           backupKey(),
		Name:         constants.BackupFileName,
		ModifiedTime: modified,
	}}, nil
}

func (s *S3Store) Upload(ctx context.Context, payload models.BackupPayload) (BackupFile, error) {
	if !s.authed {
		return BackupFile{}, ErrAuthRequired
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return BackupFile{}, fmt.Errorf("serialize backup: %w", err)
	}

	if err := s.client.PutObject(ctx, s.bucket, backupKey(), data); err != nil {
		return BackupFile{}, fmt.Errorf("upload backup: %w", err)
	}

	logger.Info("backup uploaded", "bucket", s.bucket, "key", backupKey(), "habits", len(payload.Habits))

	return BackupFile{
		ID:           backupKey(),
		Name:         constants.BackupFileName,
		ModifiedTime: time.Now(),
	}, nil
}

func (s *S3Store) Download(ctx context.Context, id string) (models.BackupPayload, error) {
	if !s.authed {
		return models.BackupPayload{}, ErrAuthRequired
	}

	data, err := s.client.GetObject(ctx, s.bucket, id)
	if err != nil {
		if err == ErrNotFound {
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

func (s *S3Store) DeleteAll(ctx context.Context) (DeleteResult, error) {
	if !s.authed {
		return DeleteResult{}, ErrAuthRequired
	}

	files, err := s.ListBackups(ctx)
	if err != nil {
		return DeleteResult{}, err
	}
	if len(files) == 0 {
		return DeleteResult{}, nil
	}

	result := DeleteResult{}
	for _, f := range files {
		if err := s.client.RemoveObject(ctx, s.bucket, f.ID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}
		result.DeletedCount++
	}

	return result, nil
}
