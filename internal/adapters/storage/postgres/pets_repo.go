package postgres

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
	var p pets.Pet
	var state string
	var decayed sql.NullTime
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
		&p.LastFed,
		&p.LastPlayed,
		&decayed,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	p.State = pets.State(state)
	if decayed.Valid {
		p.DecayedAt = decayed.Time
	}
	return p, nil
}

// FindOrCreate inserta si el colo no tiene mascota y luego lee la vigente.
func (r *PetsRepo) FindOrCreate(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tamagitchis (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
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
		p.LastFed,
		p.LastPlayed,
		toNullTime(p.DecayedAt),
		p.CreatedAt,
		p.UpdatedAt,
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
	return scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM tamagitchis WHERE id = $1`, id))
}

func (r *PetsRepo) GetByPartition(ctx context.Context, partition string) (pets.Pet, error) {
	return scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM tamagitchis WHERE colo = $1`, partition))
}

func (r *PetsRepo) ListByPartition(ctx context.Context, partition string) ([]pets.Pet, error) {
	return r.list(ctx, `SELECT `+petColumns+` FROM tamagitchis WHERE colo = $1 ORDER BY created_at ASC`, partition)
}

func (r *PetsRepo) ListPartitions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT colo FROM tamagitchis ORDER BY colo ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
			health = $2,
			happiness = $3,
			energy = $4,
			hunger = $5,
			level = $6,
			experience = $7,
			total_interactions = $8,
			state = $9,
			last_fed = $10,
			last_played = $11,
			decayed_at = $12,
			updated_at = $13
		WHERE id = $1
	`,
		p.ID,
		p.Health,
		p.Happiness,
		p.Energy,
		p.Hunger,
		p.Level,
		p.Experience,
		p.TotalInteractions,
		string(p.State),
		p.LastFed,
		p.LastPlayed,
		toNullTime(p.DecayedAt),
		p.UpdatedAt,
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
		LIMIT $1
	`, limit)
}

func (r *PetsRepo) list(ctx context.Context, query string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
