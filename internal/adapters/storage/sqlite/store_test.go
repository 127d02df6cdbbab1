package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"tamagitchi/internal/adapters/storage/storagetest"
	"tamagitchi/internal/domain/care"
)

func openTemp(t *testing.T) care.Store {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "tamagitchi.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s := NewStore(db)
	if err := s.Migrator.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestSQLiteStore(t *testing.T) {
	storagetest.Run(t, openTemp)
}

func TestMigrate_Idempotent(t *testing.T) {
	s := openTemp(t)
	if err := s.Migrator.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}
