package pets

import "sort"

const (
	MinVital = 0.0
	MaxVital = 100.0

	ExperiencePerLevel = 100
)

// Umbrales de clasificación. El orden de evaluación está en Classify.
const (
	SickHealth     = 20.0 // sick si health <= 20
	HungryLevel    = 80.0 // hungry si hunger >= 80
	SleepyEnergy   = 20.0 // sleepy si energy <= 20
	BoredHappiness = 30.0 // bored si happiness <= 30
)

// Effect es el efecto fijo de un subtipo de interacción.
type Effect struct {
	Health     float64
	Happiness  float64
	Energy     float64
	Hunger     float64
	Experience int
	Points     int
}

// FoodEffects: subtipos de feed.
var FoodEffects = map[string]Effect{
	"pizza":  {Health: 5, Happiness: 10, Energy: 5, Hunger: -15, Experience: 10, Points: 10},
	"ramen":  {Health: 8, Happiness: 8, Energy: 3, Hunger: -20, Experience: 8, Points: 8},
	"sushi":  {Health: 12, Happiness: 15, Energy: 8, Hunger: -10, Experience: 15, Points: 15},
	"coffee": {Health: 2, Happiness: 5, Energy: 15, Hunger: -5, Experience: 5, Points: 5},
	"apple":  {Health: 15, Happiness: 5, Energy: 2, Hunger: -8, Experience: 5, Points: 5},
}

// ActivityEffects: subtipos de play.
var ActivityEffects = map[string]Effect{
	"code-challenge": {Health: -5, Happiness: 20, Energy: -10, Hunger: 5, Experience: 25, Points: 25},
	"music":          {Health: 2, Happiness: 15, Energy: -5, Hunger: 2, Experience: 15, Points: 15},
	"exercise":       {Health: 10, Happiness: 10, Energy: -15, Hunger: 8, Experience: 20, Points: 20},
	"puzzle":         {Health: 0, Happiness: 12, Energy: -8, Hunger: 3, Experience: 18, Points: 18},
	"creative":       {Health: 3, Happiness: 18, Energy: -5, Hunger: 2, Experience: 22, Points: 22},
}

// LookupEffect devuelve el efecto para (kind, subtype).
// Un subtipo desconocido no es error: devuelve efecto cero y ok=false.
func LookupEffect(kind InteractionKind, subtype string) (Effect, bool) {
	var table map[string]Effect
	switch kind {
	case KindFeed:
		table = FoodEffects
	case KindPlay:
		table = ActivityEffects
	default:
		return Effect{}, false
	}
	e, ok := table[subtype]
	return e, ok
}

// Subtypes lista el vocabulario conocido para un kind, ordenado.
func Subtypes(kind InteractionKind) []string {
	var table map[string]Effect
	switch kind {
	case KindFeed:
		table = FoodEffects
	case KindPlay:
		table = ActivityEffects
	default:
		return nil
	}
	out := make([]string, 0, len(table))
	for k := range table {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// LevelFor aplica level = floor(exp / 100) + 1.
func LevelFor(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/ExperiencePerLevel + 1
}
