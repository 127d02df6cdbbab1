package pets

import (
	"math"
	"time"
)

// Tasas base por hora sin interacción.
var DecayPerHour = Vitals{
	Health:    -2,
	Happiness: -3,
	Energy:    -1,
	Hunger:    +4,
}

const (
	PoorStateMultiplier = 1.5
	MaxNeglectHours     = 24 // más allá de 24h no suma degradación
)

// DegradationResult es la salida pura del motor de degradación.
type DegradationResult struct {
	NeedsUpdate    bool
	HoursElapsed   int
	EffectiveHours int
	Multiplier     float64

	Vitals    Vitals
	State     State
	DecayedAt time.Time
}

// Degrade calcula el decaimiento de una mascota desde su última interacción
// (o desde el último checkpoint de degradación, el que sea más reciente).
// Solo se consumen horas completas: el checkpoint avanza anchor + horas, así
// que dos corridas dentro de la misma hora dejan la segunda en no-op.
func Degrade(p Pet, now time.Time) DegradationResult {
	if p.State == StateDead {
		return DegradationResult{State: StateDead, Vitals: p.Vitals}
	}

	anchor := p.LastInteraction()
	if p.DecayedAt.After(anchor) {
		anchor = p.DecayedAt
	}

	hours := HoursSince(anchor, now)
	if hours == 0 {
		return DegradationResult{State: p.State, Vitals: p.Vitals}
	}

	effective := hours
	if effective > MaxNeglectHours {
		effective = MaxNeglectHours
	}

	mult := 1.0
	if p.State.Poor() {
		mult = PoorStateMultiplier
	}

	scale := float64(effective) * mult
	v := Vitals{
		Health:    p.Health + DecayPerHour.Health*scale,
		Happiness: p.Happiness + DecayPerHour.Happiness*scale,
		Energy:    p.Energy + DecayPerHour.Energy*scale,
		Hunger:    p.Hunger + DecayPerHour.Hunger*scale,
	}.Clamp()

	return DegradationResult{
		NeedsUpdate:    true,
		HoursElapsed:   hours,
		EffectiveHours: effective,
		Multiplier:     mult,
		Vitals:         v,
		State:          classifyAfterDecay(v),
		DecayedAt:      anchor.Add(time.Duration(hours) * time.Hour),
	}
}

// HoursSince devuelve las horas completas entre from y now (mínimo 0).
func HoursSince(from, now time.Time) int {
	if from.IsZero() || !now.After(from) {
		return 0
	}
	return int(math.Floor(now.Sub(from).Hours()))
}

// Apply devuelve el snapshot a persistir. Experiencia, nivel y contador
// de interacciones no se tocan.
func (r DegradationResult) Apply(p Pet, now time.Time) Pet {
	if !r.NeedsUpdate {
		return p
	}
	p.Vitals = r.Vitals
	p.State = r.State
	p.DecayedAt = r.DecayedAt
	p.UpdatedAt = now
	return p
}

// DegradedPet es una mascota que necesita persistirse tras el batch.
type DegradedPet struct {
	Pet          Pet
	HoursElapsed int
	Previous     State
}

// BatchSummary cumple Processed == Updated + Skipped + Failed. Failed solo
// es distinto de cero cuando la persistencia cortó el batch.
type BatchSummary struct {
	Processed int
	Updated   int
	Skipped   int
	Failed    int
}

type Batch struct {
	Updates []DegradedPet
	Summary BatchSummary
}

// DegradeBatch aplica Degrade a todas las mascotas y devuelve solo las que
// cambiaron. Sin mascotas devuelve el resumen cero.
func DegradeBatch(list []Pet, now time.Time) Batch {
	out := Batch{Updates: make([]DegradedPet, 0)}

	for _, p := range list {
		out.Summary.Processed++

		res := Degrade(p, now)
		if !res.NeedsUpdate {
			continue
		}

		out.Updates = append(out.Updates, DegradedPet{
			Pet:          res.Apply(p, now),
			HoursElapsed: res.HoursElapsed,
			Previous:     p.State,
		})
		out.Summary.Updated++
	}

	out.Summary.Skipped = out.Summary.Processed - out.Summary.Updated
	return out
}
