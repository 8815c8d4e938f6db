package remote

import (
	"context"
	"errors"
	"testing"
)

func TestNoopStore(t *testing.T) {
	var s Store = NoopStore{}
	ctx := context.Background()

	if s.IsAuthenticated() {
		t.Error("noop store must never be authenticated")
	}
	if _, err := s.ListBackups(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("ListBackups err = %v", err)
	}
	if _, err := s.Upload(ctx, testPayload()); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Upload err = %v", err)
	}
	if _, err := s.Download(ctx, "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Download err = %v", err)
	}
	if _, err := s.DeleteAll(ctx); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("DeleteAll err = %v", err)
	}
}
