package pets

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Delta es el cambio aplicado por una interacción.
type Delta struct {
	HealthChange     float64
	HappinessChange  float64
	EnergyChange     float64
	HungerChange     float64
	ExperienceGained int
	PointsEarned     int
}

func (d Delta) IsZero() bool {
	return d == Delta{}
}

func deltaFrom(e Effect) Delta {
	return Delta{
		HealthChange:     e.Health,
		HappinessChange:  e.Happiness,
		EnergyChange:     e.Energy,
		HungerChange:     e.Hunger,
		ExperienceGained: e.Experience,
		PointsEarned:     e.Points,
	}
}

// InteractionResult es la salida pura del motor de interacción.
type InteractionResult struct {
	Kind    InteractionKind
	Subtype string
	Known   bool // false => subtipo desconocido, delta cero

	Delta  Delta
	Vitals Vitals

	Experience        int
	Level             int
	TotalInteractions int
	State             State
	LeveledUp         bool

	Summary string
}

// Interact calcula el resultado de una interacción sobre un snapshot.
// Es determinística y sin efectos secundarios; cualquier combinación
// kind/subtype es aceptada (desconocida => efecto cero).
func Interact(kind InteractionKind, subtype string, p Pet) InteractionResult {
	effect, known := LookupEffect(kind, subtype)
	d := deltaFrom(effect)

	v := Vitals{
		Health:    p.Health + d.HealthChange,
		Happiness: p.Happiness + d.HappinessChange,
		Energy:    p.Energy + d.EnergyChange,
		Hunger:    p.Hunger + d.HungerChange,
	}.Clamp()

	exp := p.Experience + d.ExperienceGained
	level := LevelFor(exp)

	res := InteractionResult{
		Kind:              kind,
		Subtype:           subtype,
		Known:             known,
		Delta:             d,
		Vitals:            v,
		Experience:        exp,
		Level:             level,
		TotalInteractions: p.TotalInteractions + 1,
		State:             Classify(v),
		LeveledUp:         level > p.Level,
	}
	res.Summary = summarize(p, res)
	return res
}

// Apply devuelve el snapshot a persistir. Feed actualiza LastFed y
// play actualiza LastPlayed (aunque el subtipo sea desconocido).
func (r InteractionResult) Apply(p Pet, now time.Time) Pet {
	p.Vitals = r.Vitals
	p.Experience = r.Experience
	p.Level = r.Level
	p.TotalInteractions = r.TotalInteractions
	p.State = r.State
	p.UpdatedAt = now

	switch r.Kind {
	case KindFeed:
		p.LastFed = now
	case KindPlay:
		p.LastPlayed = now
	}
	return p
}

func summarize(p Pet, r InteractionResult) string {
	var b strings.Builder

	b.WriteString("## 🎉 Interaction Successful!\n\n")

	switch r.Kind {
	case KindFeed:
		fmt.Fprintf(&b, "**%s enjoyed the %s! 🍽️**\n\n", p.Name, r.Subtype)
	case KindPlay:
		fmt.Fprintf(&b, "**%s had fun with %s! 🎮**\n\n", p.Name, r.Subtype)
	default:
		fmt.Fprintf(&b, "**%s appreciated the interaction!**\n\n", p.Name)
	}

	fmt.Fprintf(&b, "### Tamagitchi Stats (Colo: %s)\n", p.Partition)
	writeStat(&b, "💖 Health", r.Vitals.Health, r.Delta.HealthChange)
	writeStat(&b, "😊 Happiness", r.Vitals.Happiness, r.Delta.HappinessChange)
	writeStat(&b, "⚡ Energy", r.Vitals.Energy, r.Delta.EnergyChange)
	writeStat(&b, "🍽️ Hunger", r.Vitals.Hunger, r.Delta.HungerChange)

	fmt.Fprintf(&b, "- 🏆 Level: %d\n", r.Level)
	fmt.Fprintf(&b, "- ✨ Experience: %d", r.Experience)
	if r.Delta.ExperienceGained > 0 {
		fmt.Fprintf(&b, " (+%d)", r.Delta.ExperienceGained)
	}
	fmt.Fprintf(&b, "\n- 🎯 Points Earned: %d\n", r.Delta.PointsEarned)

	if r.LeveledUp {
		fmt.Fprintf(&b, "\n🎊 **LEVEL UP!** %s reached level %d!\n", p.Name, r.Level)
	}

	fmt.Fprintf(&b, "\n---\n*State: %s* | *Total Interactions: %d*",
		strings.ToUpper(string(r.State)), r.TotalInteractions)

	return b.String()
}

func writeStat(b *strings.Builder, label string, value, change float64) {
	fmt.Fprintf(b, "- %s: %s/100", label, FormatVital(value))
	if change != 0 {
		sign := ""
		if change > 0 {
			sign = "+"
		}
		fmt.Fprintf(b, " (%s%s)", sign, FormatVital(change))
	}
	b.WriteString("\n")
}

// FormatVital imprime enteros sin decimales (52) y fracciones tal cual (40.5).
func FormatVital(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
