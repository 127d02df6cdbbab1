package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tamagitchi/internal/domain/care"

	_ "modernc.org/sqlite" // driver sqlite en Go puro
)

// Open abre (o crea) el archivo SQLite. Una sola conexión: SQLite serializa
// las escrituras igual, y así no aparecen SQLITE_BUSY entre actores.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = "tamagitchi.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Timestamps como INTEGER en milisegundos unix (UTC); decayed_at e
// issue_number admiten NULL.
var schema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS tamagitchis (
		id                 TEXT PRIMARY KEY,
		colo               TEXT NOT NULL UNIQUE,
		name               TEXT NOT NULL,
		health             REAL NOT NULL,
		happiness          REAL NOT NULL,
		energy             REAL NOT NULL,
		hunger             REAL NOT NULL,
		level              INTEGER NOT NULL DEFAULT 1,
		experience         INTEGER NOT NULL DEFAULT 0,
		total_interactions INTEGER NOT NULL DEFAULT 0,
		state              TEXT NOT NULL,
		last_fed           INTEGER NOT NULL,
		last_played        INTEGER NOT NULL,
		decayed_at         INTEGER NULL,
		created_at         INTEGER NOT NULL,
		updated_at         INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS owners (
		id            TEXT PRIMARY KEY,
		colo          TEXT NOT NULL,
		username      TEXT NOT NULL,
		display_name  TEXT NOT NULL DEFAULT '',
		avatar_url    TEXT NOT NULL DEFAULT '',
		created_at    INTEGER NOT NULL,
		last_activity INTEGER NOT NULL,
		UNIQUE (colo, username)
	)`,
	`CREATE TABLE IF NOT EXISTS interactions (
		id                TEXT PRIMARY KEY,
		owner_id          TEXT NOT NULL REFERENCES owners(id),
		tamagitchi_id     TEXT NOT NULL REFERENCES tamagitchis(id),
		type              TEXT NOT NULL,
		subtype           TEXT NOT NULL,
		points            INTEGER NOT NULL,
		experience_gained INTEGER NOT NULL,
		health_change     REAL NOT NULL,
		happiness_change  REAL NOT NULL,
		energy_change     REAL NOT NULL,
		hunger_change     REAL NOT NULL,
		occurred_at       INTEGER NOT NULL,
		issue_number      INTEGER NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_occurred_at ON interactions (occurred_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_tamagitchis_rank ON tamagitchis (level DESC, experience DESC)`,
}

type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migrate step %d: %w", i, err)
		}
	}
	return nil
}

func NewStore(db *sql.DB) care.Store {
	return care.Store{
		Pets:     NewPetsRepo(db),
		Owners:   NewOwnersRepo(db),
		Activity: NewActivityRepo(db),
		Migrator: NewMigrator(db),
		Tx:       NewTxRunner(db),
	}
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func toNullMillis(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func fromNullMillis(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return fromMillis(v.Int64)
}
