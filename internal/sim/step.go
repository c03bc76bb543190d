package sim

import (
	"math/rand"

	"citybus-tracker/internal/transit"
)

// MaxCoordDelta bounds the per-tick latitude and longitude perturbation.
const MaxCoordDelta = 0.0005

// Step applies one random-walk move to v: each coordinate drifts by a value
// in [-MaxCoordDelta, MaxCoordDelta) and the ETA moves by one minute either
// way, never below 1. There are no spatial bounds.
func Step(v transit.Vehicle, rng *rand.Rand) transit.Vehicle {
	v.Lat += (rng.Float64() - 0.5) * 2 * MaxCoordDelta
	v.Lon += (rng.Float64() - 0.5) * 2 * MaxCoordDelta
	if rng.Float64() > 0.5 {
		v.ETAMinutes--
	} else {
		v.ETAMinutes++
	}
	if v.ETAMinutes < 1 {
		v.ETAMinutes = 1
	}
	return v
}
