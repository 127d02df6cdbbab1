package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tamagitchi/internal/domain/owners"
)

type OwnersRepo struct {
	db querier
}

func NewOwnersRepo(db querier) *OwnersRepo {
	return &OwnersRepo{db: db}
}

func (r *OwnersRepo) FindOrCreate(ctx context.Context, o owners.Owner) (owners.Owner, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO owners (id, colo, username, display_name, avatar_url, created_at, last_activity)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (colo, username) DO NOTHING
	`,
		o.ID,
		o.Partition,
		o.Username,
		o.DisplayName,
		o.AvatarURL,
		o.CreatedAt,
		o.LastActivity,
	)
	if err != nil {
		return owners.Owner{}, err
	}

	return r.scan(r.db.QueryRowContext(ctx, `
		SELECT id, colo, username, display_name, avatar_url, created_at, last_activity
		FROM owners
		WHERE colo = $1 AND username = $2
	`, o.Partition, o.Username))
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	return r.scan(r.db.QueryRowContext(ctx, `
		SELECT id, colo, username, display_name, avatar_url, created_at, last_activity
		FROM owners
		WHERE id = $1
	`, id))
}

func (r *OwnersRepo) UpdateLastActivity(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE owners SET last_activity = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return owners.ErrNotFound
	}
	return nil
}

func (r *OwnersRepo) scan(row *sql.Row) (owners.Owner, error) {
	var o owners.Owner
	if err := row.Scan(
		&o.ID,
		&o.Partition,
		&o.Username,
		&o.DisplayName,
		&o.AvatarURL,
		&o.CreatedAt,
		&o.LastActivity,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return owners.Owner{}, owners.ErrNotFound
		}
		return owners.Owner{}, err
	}
	return o, nil
}
