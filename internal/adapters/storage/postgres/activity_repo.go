package postgres

import (
	"context"
	"database/sql"

	"tamagitchi/internal/domain/activity"
	"tamagitchi/internal/domain/pets"
)

type ActivityRepo struct {
	db querier
}

func NewActivityRepo(db querier) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Create(ctx context.Context, a activity.Activity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interactions (
			id, owner_id, tamagitchi_id,
			type, subtype,
			points, experience_gained,
			health_change, happiness_change, energy_change, hunger_change,
			occurred_at, issue_number
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		a.ID,
		a.OwnerID,
		a.PetID,
		string(a.Kind),
		a.Subtype,
		a.Points,
		a.ExperienceGained,
		a.HealthChange,
		a.HappinessChange,
		a.EnergyChange,
		a.HungerChange,
		a.OccurredAt,
		toNullInt64(a.IssueNumber),
	)
	return err
}

func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]activity.Activity, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_id, tamagitchi_id,
			type, subtype,
			points, experience_gained,
			health_change, happiness_change, energy_change, hunger_change,
			occurred_at, issue_number
		FROM interactions
		ORDER BY occurred_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]activity.Activity, 0)
	for rows.Next() {
		var a activity.Activity
		var kind string
		var issue sql.NullInt64
		if err := rows.Scan(
			&a.ID,
			&a.OwnerID,
			&a.PetID,
			&kind,
			&a.Subtype,
			&a.Points,
			&a.ExperienceGained,
			&a.HealthChange,
			&a.HappinessChange,
			&a.EnergyChange,
			&a.HungerChange,
			&a.OccurredAt,
			&issue,
		); err != nil {
			return nil, err
		}
		a.Kind = pets.InteractionKind(kind)
		if issue.Valid {
			n := issue.Int64
			a.IssueNumber = &n
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
