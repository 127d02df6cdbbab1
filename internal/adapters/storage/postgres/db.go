package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tamagitchi/internal/domain/care"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tamagitchis (
		id                 TEXT PRIMARY KEY,
		colo               TEXT NOT NULL UNIQUE,
		name               TEXT NOT NULL,
		health             DOUBLE PRECISION NOT NULL,
		happiness          DOUBLE PRECISION NOT NULL,
		energy             DOUBLE PRECISION NOT NULL,
		hunger             DOUBLE PRECISION NOT NULL,
		level              INTEGER NOT NULL DEFAULT 1,
		experience         INTEGER NOT NULL DEFAULT 0,
		total_interactions INTEGER NOT NULL DEFAULT 0,
		state              TEXT NOT NULL,
		last_fed           TIMESTAMPTZ NOT NULL,
		last_played        TIMESTAMPTZ NOT NULL,
		decayed_at         TIMESTAMPTZ NULL,
		created_at         TIMESTAMPTZ NOT NULL,
		updated_at         TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS owners (
		id            TEXT PRIMARY KEY,
		colo          TEXT NOT NULL,
		username      TEXT NOT NULL,
		display_name  TEXT NOT NULL DEFAULT '',
		avatar_url    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		last_activity TIMESTAMPTZ NOT NULL,
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
		health_change     DOUBLE PRECISION NOT NULL,
		happiness_change  DOUBLE PRECISION NOT NULL,
		energy_change     DOUBLE PRECISION NOT NULL,
		hunger_change     DOUBLE PRECISION NOT NULL,
		occurred_at       TIMESTAMPTZ NOT NULL,
		issue_number      BIGINT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS interactions_occurred_at_idx ON interactions (occurred_at DESC)`,
	`CREATE INDEX IF NOT EXISTS tamagitchis_rank_idx ON tamagitchis (level DESC, experience DESC)`,
}

// Migrator crea el esquema si no existe. Es idempotente.
type Migrator struct {
	db *sql.DB
}

func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db}
}

func (m *Migrator) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres migrate step %d: %w", i, err)
		}
	}
	return nil
}

// NewStore arma el store completo sobre db.
func NewStore(db *sql.DB) care.Store {
	return care.Store{
		Pets:     NewPetsRepo(db),
		Owners:   NewOwnersRepo(db),
		Activity: NewActivityRepo(db),
		Migrator: NewMigrator(db),
		Tx:       NewTxRunner(db),
	}
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
