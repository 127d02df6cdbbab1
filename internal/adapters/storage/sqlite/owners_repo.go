package sqlite

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
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT (colo, username) DO NOTHING
	`,
		o.ID,
		o.Partition,
		o.Username,
		o.DisplayName,
		o.AvatarURL,
		toMillis(o.CreatedAt),
		toMillis(o.LastActivity),
	)
	if err != nil {
		return owners.Owner{}, err
	}

	return scanOwner(r.db.QueryRowContext(ctx, `
		SELECT id, colo, username, display_name, avatar_url, created_at, last_activity
		FROM owners
		WHERE colo = ? AND username = ?
	`, o.Partition, o.Username))
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	return scanOwner(r.db.QueryRowContext(ctx, `
		SELECT id, colo, username, display_name, avatar_url, created_at, last_activity
		FROM owners
		WHERE id = ?
	`, id))
}

func (r *OwnersRepo) UpdateLastActivity(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE owners SET last_activity = ? WHERE id = ?`, toMillis(at), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return owners.ErrNotFound
	}
	return nil
}

func scanOwner(row *sql.Row) (owners.Owner, error) {
	var o owners.Owner
	var created, last int64
	if err := row.Scan(
		&o.ID,
		&o.Partition,
		&o.Username,
		&o.DisplayName,
		&o.AvatarURL,
		&created,
		&last,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return owners.Owner{}, owners.ErrNotFound
		}
		return owners.Owner{}, err
	}
	o.CreatedAt = fromMillis(created)
	o.LastActivity = fromMillis(last)
	return o, nil
}
