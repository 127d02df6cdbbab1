package postgres

import (
	"context"
	"os"
	"testing"

	"tamagitchi/internal/adapters/storage/storagetest"
	"tamagitchi/internal/domain/care"
)

// Corre contra una base real solo si DB_DSN está seteado. Cada subtest
// arranca con las tablas vacías.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		t.Skip("DB_DSN not set")
	}

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	storagetest.Run(t, func(t *testing.T) care.Store {
		ctx := context.Background()
		s := NewStore(db)
		if err := s.Migrator.Migrate(ctx); err != nil {
			t.Fatalf("migrate: %v", err)
		}
		if _, err := db.ExecContext(ctx, `TRUNCATE interactions, owners, tamagitchis`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return s
	})
}
