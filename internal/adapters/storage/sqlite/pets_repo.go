package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tamagitchi/internal/domain/pets"
)

type PetsRepo struct {
	db querier
}

func NewPetsRepo(db querier) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, colo, name,
	health, happiness, energy, hunger,
	level, experience, total_interactions, state,
	last_fed, last_played, decayed_at,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p                                     pets.Pet
		state                                 string
		lastFed, lastPlayed, created, updated int64
		decayed                               sql.NullInt64
	)
	if err := row.Scan(
		&p.ID,
		&p.Partition,
		&p.Name,
		&p.Health,
		&p.Happiness,
		&p.Energy,
		&p.Hunger,
		&p.Level,
		&p.Experience,
		&p.TotalInteractions,
		&state,
		&lastFed,
		&lastPlayed,
		&decayed,
		&created,
		&updated,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}

	p.State = pets.State(state)
	p.LastFed = fromMillis(lastFed)
	p.LastPlayed = fromMillis(lastPlayed)
	p.DecayedAt = fromNullMillis(decayed)
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}

func (r *PetsRepo) FindOrCreate(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tamagitchis (`+petColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (colo) DO NOTHING
	`,
		p.ID,
		p.Partition,
		p.Name,
		p.Health,
		p.Happiness,
		p.Energy,
		p.Hunger,
		p.Level,
		p.Experience,
		p.TotalInteractions,
		string(p.State),
		toMillis(p.LastFed),
		toMillis(p.LastPlayed),
		toNullMillis(p.DecayedAt),
		toMillis(p.CreatedAt),
		toMillis(p.UpdatedAt),
	)
	if err != nil {
		return pets.Pet{}, err
	}
	return r.GetByPartition(ctx, p.Partition)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}
	return scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM tamagitchis WHERE id = ?`, id))
}

func (r *PetsRepo) GetByPartition(ctx context.Context, partition string) (pets.Pet, error) {
	return scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM tamagitchis WHERE colo = ?`, partition))
}

func (r *PetsRepo) ListByPartition(ctx context.Context, partition string) ([]pets.Pet, error) {
	return r.list(ctx, `SELECT `+petColumns+` FROM tamagitchis WHERE colo = ? ORDER BY created_at ASC`, partition)
}

func (r *PetsRepo) ListPartitions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT colo FROM tamagitchis ORDER BY colo ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]string, 0)
	for rows.Next() {
		var colo string
		if err := rows.Scan(&colo); err != nil {
			return nil, err
		}
		out = append(out, colo)
	}
	return out, rows.Err()
}

func (r *PetsRepo) UpdateStats(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tamagitchis
		SET
			health = ?,
			happiness = ?,
			energy = ?,
			hunger = ?,
			level = ?,
			experience = ?,
			total_interactions = ?,
			state = ?,
			last_fed = ?,
			last_played = ?,
			decayed_at = ?,
			updated_at = ?
		WHERE id = ?
	`,
		p.Health,
		p.Happiness,
		p.Energy,
		p.Hunger,
		p.Level,
		p.Experience,
		p.TotalInteractions,
		string(p.State),
		toMillis(p.LastFed),
		toMillis(p.LastPlayed),
		toNullMillis(p.DecayedAt),
		toMillis(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) Leaderboard(ctx context.Context, limit int) ([]pets.Pet, error) {
	return r.list(ctx, `
		SELECT `+petColumns+`
		FROM tamagitchis
		ORDER BY level DESC, experience DESC, colo ASC
		LIMIT ?
	`, limit)
}

func (r *PetsRepo) list(ctx context.Context, query string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
