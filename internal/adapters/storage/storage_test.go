package storage

import (
	"context"
	"path/filepath"
	"testing"

	"daily-medicine-reminder/internal/platform/logger"
)

func TestOpen_Memory(t *testing.T) {
	repos, err := Open(context.Background(), Options{}, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if repos.Driver != DriverMemory || repos.Medicines == nil || repos.Doses == nil || repos.Adherence == nil {
		t.Fatalf("unexpected repos: %+v", repos)
	}
	if err := repos.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "med.db")
	repos, err := Open(context.Background(), Options{Driver: "SQLite", SQLitePath: path, AutoMigrate: true}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repos.Close()

	all, err := repos.Medicines.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll on migrated db: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty db, got %d", len(all))
	}
}

func TestOpen_Errors(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "mongo"}, nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if _, err := Open(context.Background(), Options{Driver: DriverPostgres}, nil); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
}
