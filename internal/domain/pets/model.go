package pets

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("pet not found")
)

// State es el estado de ciclo de vida derivado de los vitales.
// @Enum happy, hungry, sleepy, sick, bored, dead
type State string

const (
	StateHappy  State = "happy"
	StateHungry State = "hungry"
	StateSleepy State = "sleepy"
	StateSick   State = "sick"
	StateBored  State = "bored"
	StateDead   State = "dead" // terminal, solo alcanzable por degradación
)

// Poor indica si el estado acelera la degradación.
func (s State) Poor() bool {
	switch s {
	case StateSick, StateHungry, StateSleepy, StateBored:
		return true
	default:
		return false
	}
}

// InteractionKind es el tipo de interacción (consumo o juego).
// @Enum feed, play
type InteractionKind string

const (
	KindFeed InteractionKind = "feed"
	KindPlay InteractionKind = "play"
)

func ParseKind(s string) (InteractionKind, bool) {
	switch InteractionKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindFeed:
		return KindFeed, true
	case KindPlay:
		return KindPlay, true
	default:
		return "", false
	}
}

// Vitals agrupa los cuatro stats acotados.
// Health/Happiness/Energy viven en [0,100]; Hunger en [0,∞).
type Vitals struct {
	Health    float64
	Happiness float64
	Energy    float64
	Hunger    float64
}

// Pet es la mascota virtual de un colo (una por partición).
type Pet struct {
	ID        string
	Partition string // colo, p.ej. "DFW"
	Name      string

	Vitals

	Level             int
	Experience        int
	TotalInteractions int

	State State

	LastFed    time.Time
	LastPlayed time.Time
	DecayedAt  time.Time // checkpoint de la última degradación aplicada (zero = nunca)

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New arma una mascota recién nacida para el colo indicado.
func New(id, partition string, now time.Time) Pet {
	return Pet{
		ID:        id,
		Partition: partition,
		Name:      "Tama-" + partition,
		Vitals: Vitals{
			Health:    MaxVital,
			Happiness: MaxVital,
			Energy:    MaxVital,
			Hunger:    0,
		},
		Level:      1,
		State:      StateHappy,
		LastFed:    now,
		LastPlayed: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// LastInteraction devuelve el más reciente entre LastFed y LastPlayed.
func (p Pet) LastInteraction() time.Time {
	if p.LastPlayed.After(p.LastFed) {
		return p.LastPlayed
	}
	return p.LastFed
}

// NormalizePartition pasa el colo a mayúsculas y valida que sea un código
// IATA de tres letras ("dfw" => "DFW").
func NormalizePartition(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return "", false
	}
	for _, c := range s {
		if c < 'A' || c > 'Z' {
			return "", false
		}
	}
	return s, true
}
