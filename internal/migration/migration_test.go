package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"001_init.sql": &fstest.MapFile{
			Data: []byte("CREATE TABLE things (id TEXT PRIMARY KEY, name TEXT NOT NULL);"),
		},
		"002_add_note.sql": &fstest.MapFile{
			Data: []byte("ALTER TABLE things ADD COLUMN note TEXT DEFAULT '';"),
		},
	}
}

func TestApplyFreshDatabase(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, testFS())

	applied, err := runner.Apply()
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	// Both migrations must have taken effect.
	if _, err := db.Exec("INSERT INTO things (id, name, note) VALUES ('a', 'x', 'y')"); err != nil {
		t.Fatalf("insert into migrated table: %v", err)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, testFS())

	if _, err := runner.Apply(); err != nil {
		t.Fatalf("first Apply: %v", err)
	}

	applied, err := runner.Apply()
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Apply applied = %d, want 0", applied)
	}
}

func TestApplyPartialUpgrade(t *testing.T) {
	db := openTestDB(t)

	first := fstest.MapFS{"001_init.sql": testFS()["001_init.sql"]}
	if _, err := NewRunner(db, first).Apply(); err != nil {
		t.Fatalf("apply 001: %v", err)
	}

	applied, err := NewRunner(db, testFS()).Apply()
	if err != nil {
		t.Fatalf("apply remaining: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
}

func TestApplyNewerDatabaseRejected(t *testing.T) {
	db := openTestDB(t)
	runner := NewRunner(db, testFS())

	if _, err := db.Exec("CREATE TABLE schema_version (version INTEGER PRIMARY KEY)"); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (99)"); err != nil {
		t.Fatal(err)
	}

	if _, err := runner.Apply(); err == nil {
		t.Error("Apply against newer schema should fail")
	}
	if err := runner.ValidateVersion(); err == nil {
		t.Error("ValidateVersion against newer schema should fail")
	}
}

func TestFailedMigrationLeavesVersionUntouched(t *testing.T) {
	db := openTestDB(t)

	fs := testFS()
	fs["003_broken.sql"] = &fstest.MapFile{Data: []byte("THIS IS NOT SQL;")}
	runner := NewRunner(db, fs)

	applied, err := runner.Apply()
	if err == nil {
		t.Fatal("Apply with broken migration should fail")
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2 before failure", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version != 2 {
		t.Errorf("version after failed migration = %d, want 2", version)
	}
}

func TestLoadRejectsBadFilenames(t *testing.T) {
	db := openTestDB(t)

	bad := fstest.MapFS{
		"nonsense.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
	}
	if _, err := NewRunner(db, bad).Load(); err == nil {
		t.Error("Load should reject filename without version prefix")
	}

	dup := testFS()
	dup["002_other.sql"] = &fstest.MapFile{Data: []byte("SELECT 1;")}
	_, err := NewRunner(db, dup).Load()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("Load should reject duplicate versions, got %v", err)
	}
}
