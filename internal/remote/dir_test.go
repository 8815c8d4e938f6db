package remote

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/betterhabits/internal/constants"
	"github.com/julianstephens/betterhabits/internal/models"
)

func testPayload(habits ...models.Habit) models.BackupPayload {
	if habits == nil {
		habits = []models.Habit{}
	}
	return models.BackupPayload{
		ExportDate: "2024-06-15T10:30:00Z",
		Version:    constants.BackupVersion,
		Habits:     habits,
		Metadata: models.BackupMetadata{
			TotalHabits:  len(habits),
			ExportSource: constants.ExportSource,
		},
	}
}

func TestDirStoreUnauthenticatedWithoutDir(t *testing.T) {
	d := NewDirStore("")
	if d.IsAuthenticated() {
		t.Error("empty dir should not be authenticated")
	}
	if _, err := d.ListBackups(context.Background()); !errors.Is(err, ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}

func TestDirStoreRoundTrip(t *testing.T) {
	d := NewDirStore(t.TempDir())
	ctx := context.Background()

	files, err := d.ListBackups(ctx)
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("fresh dir lists %d backups", len(files))
	}

	payload := testPayload(models.Habit{ID: "h1", Name: "Run", CompletedDates: []string{"2024-06-01"}, FailedDates: []string{}})
	uploaded, err := d.Upload(ctx, payload)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if uploaded.Name != constants.BackupFileName {
		t.Errorf("name = %q", uploaded.Name)
	}

	files, err = d.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("len = %d, want 1", len(files))
	}
	if files[0].ID != uploaded.ID {
		t.Errorf("listed id %q != uploaded id %q", files[0].ID, uploaded.ID)
	}

	got, err := d.Download(ctx, files[0].ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if len(got.Habits) != 1 || got.Habits[0].ID != "h1" {
		t.Errorf("downloaded payload = %+v", got)
	}
	if got.Version != constants.BackupVersion {
		t.Errorf("version = %q", got.Version)
	}
}

func TestDirStoreCanonicalFileOverwritten(t *testing.T) {
	d := NewDirStore(t.TempDir())
	ctx := context.Background()

	first, err := d.Upload(ctx, testPayload(models.Habit{ID: "a", Name: "A"}))
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Upload(ctx, testPayload(models.Habit{ID: "b", Name: "B"}))
	if err != nil {
		t.Fatal(err)
	}

	// One canonical file: the ID is stable across overwrites.
	if first.ID != second.ID {
		t.Errorf("id changed across uploads: %q vs %q", first.ID, second.ID)
	}

	files, err := d.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("len = %d, want 1", len(files))
	}

	got, err := d.Download(ctx, files[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Habits) != 1 || got.Habits[0].ID != "b" {
		t.Errorf("download after overwrite = %+v", got.Habits)
	}
}

func TestDirStoreDownloadUnknownID(t *testing.T) {
	d := NewDirStore(t.TempDir())
	ctx := context.Background()

	if _, err := d.Upload(ctx, testPayload()); err != nil {
		t.Fatal(err)
	}
	if _, err := d.Download(ctx, "some-other-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDirStoreDeleteAll(t *testing.T) {
	dir := t.TempDir()
	d := NewDirStore(dir)
	ctx := context.Background()

	// Deleting with no backup present succeeds with zero count.
	result, err := d.DeleteAll(ctx)
	if err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}
	if result.DeletedCount != 0 || len(result.Errors) != 0 {
		t.Errorf("empty delete result = %+v", result)
	}

	if _, err := d.Upload(ctx, testPayload()); err != nil {
		t.Fatal(err)
	}

	result, err = d.DeleteAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if result.DeletedCount != 1 || len(result.Errors) != 0 {
		t.Errorf("result = %+v", result)
	}

	if _, err := os.Stat(filepath.Join(dir, constants.BackupFolderName, constants.BackupFileName)); !os.IsNotExist(err) {
		t.Error("backup file still present after DeleteAll")
	}

	files, err := d.ListBackups(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("%d backups listed after DeleteAll", len(files))
	}
}
