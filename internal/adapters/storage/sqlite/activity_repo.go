package sqlite

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
	var issue sql.NullInt64
	if a.IssueNumber != nil {
		issue = sql.NullInt64{Int64: *a.IssueNumber, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interactions (
			id, owner_id, tamagitchi_id,
			type, subtype,
			points, experience_gained,
			health_change, happiness_change, energy_change, hunger_change,
			occurred_at, issue_number
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
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
		toMillis(a.OccurredAt),
		issue,
	)
	return err
}

func (r *ActivityRepo) ListRecent(ctx context.Context, limit int) ([]activity.Activity, error) {
	// rowid desc desempata inserciones dentro del mismo milisegundo
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_id, tamagitchi_id,
			type, subtype,
			points, experience_gained,
			health_change, happiness_change, energy_change, hunger_change,
			occurred_at, issue_number
		FROM interactions
		ORDER BY occurred_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]activity.Activity, 0)
	for rows.Next() {
		var a activity.Activity
		var kind string
		var occurred int64
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
			&occurred,
			&issue,
		); err != nil {
			return nil, err
		}
		a.Kind = pets.InteractionKind(kind)
		a.OccurredAt = fromMillis(occurred)
		if issue.Valid {
			n := issue.Int64
			a.IssueNumber = &n
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
