package db

import (
	"path/filepath"
	"testing"
)

func TestRunMigrationsIsRepeatable(t *testing.T) {
	database, err := NewSQLiteDB(filepath.Join(t.TempDir(), "nested", "requests.db"))
	if err != nil {
		t.Fatalf("NewSQLiteDB returned error: %v", err)
	}
	defer database.Close()

	if err := RunMigrations(database); err != nil {
		t.Fatalf("first RunMigrations returned error: %v", err)
	}
	if err := RunMigrations(database); err != nil {
		t.Fatalf("second RunMigrations returned error: %v", err)
	}

	for _, table := range []string{"processing_requests", "users"} {
		var count int
		err := database.Get(&count, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err != nil {
			t.Fatalf("query sqlite_master: %v", err)
		}
		if count != 1 {
			t.Errorf("expected table %s to exist", table)
		}
	}
}
