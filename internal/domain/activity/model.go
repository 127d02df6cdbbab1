package activity

import (
	"time"

	"tamagitchi/internal/domain/pets"
)

// Activity es el registro append-only de cada interacción exitosa.
// Nunca se relee en el camino de mutación; solo alimenta el feed.
type Activity struct {
	ID      string
	OwnerID string
	PetID   string

	Kind    pets.InteractionKind
	Subtype string

	Points           int
	ExperienceGained int

	HealthChange    float64
	HappinessChange float64
	EnergyChange    float64
	HungerChange    float64

	OccurredAt  time.Time
	IssueNumber *int64 // opcional (issue de GitHub que disparó la interacción)
}

// FromDelta arma el registro a partir del delta calculado por el motor.
func FromDelta(id, ownerID, petID string, kind pets.InteractionKind, subtype string, d pets.Delta, at time.Time, issue *int64) Activity {
	return Activity{
		ID:               id,
		OwnerID:          ownerID,
		PetID:            petID,
		Kind:             kind,
		Subtype:          subtype,
		Points:           d.PointsEarned,
		ExperienceGained: d.ExperienceGained,
		HealthChange:     d.HealthChange,
		HappinessChange:  d.HappinessChange,
		EnergyChange:     d.EnergyChange,
		HungerChange:     d.HungerChange,
		OccurredAt:       at,
		IssueNumber:      issue,
	}
}

// Verb devuelve el verbo usado en el feed ("fed" / "played").
func (a Activity) Verb() string {
	switch a.Kind {
	case pets.KindFeed:
		return "fed"
	case pets.KindPlay:
		return "played"
	default:
		return "interacted"
	}
}
