package pets

import "math"

// Classify reclasifica desde cero según los vitales.
// El orden importa: sick > hungry > sleepy > bored > happy. Nunca devuelve dead.
func Classify(v Vitals) State {
	switch {
	case v.Health <= SickHealth:
		return StateSick
	case v.Hunger >= HungryLevel:
		return StateHungry
	case v.Energy <= SleepyEnergy:
		return StateSleepy
	case v.Happiness <= BoredHappiness:
		return StateBored
	default:
		return StateHappy
	}
}

// classifyAfterDecay agrega el estado terminal: health <= 0 => dead.
func classifyAfterDecay(v Vitals) State {
	if v.Health <= 0 {
		return StateDead
	}
	return Classify(v)
}

func clampBounded(v float64) float64 {
	return math.Max(MinVital, math.Min(MaxVital, v))
}

// hunger no tiene techo: el descuido sigue empeorando el valor.
func clampHunger(v float64) float64 {
	return math.Max(MinVital, v)
}

// Clamp aplica los límites de cada vital.
func (v Vitals) Clamp() Vitals {
	return Vitals{
		Health:    clampBounded(v.Health),
		Happiness: clampBounded(v.Happiness),
		Energy:    clampBounded(v.Energy),
		Hunger:    clampHunger(v.Hunger),
	}
}
