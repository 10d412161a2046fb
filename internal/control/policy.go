package control

import "math"

const (
	MaxAxis = 1.0
	MinAxis = -1.0

	// Increments are rounded to this resolution so repeated 0.1 steps land on
	// exact decimal values instead of drifting.
	resolution = 1e9
)

// ClampedIncrement adds delta to current and clamps the result to [lower, upper].
func ClampedIncrement(current, delta, lower, upper float64) float64 {
	return Clamp(round(current+delta), lower, upper)
}

// UnboundedIncrement is used by the auxiliary tuning parameters, which have no range.
func UnboundedIncrement(current, delta float64) float64 {
	return round(current + delta)
}

// DirectAxisSet passes an absolute sample through, clamping anything the
// device reports outside [-1, 1].
func DirectAxisSet(sample float64) float64 {
	if math.IsNaN(sample) {
		return 0.0
	}
	return Clamp(sample, MinAxis, MaxAxis)
}

// MidDeadZone snaps values within deadZone of midValue back to midValue.
func MidDeadZone(value, midValue, deadZone float64) float64 {
	if value > midValue && midValue+deadZone > value {
		return midValue
	} else if value < midValue && midValue-deadZone < value {
		return midValue
	}
	return value
}

func Clamp(value, lower, upper float64) float64 {
	if value > upper {
		return upper
	} else if value < lower {
		return lower
	}
	return value
}

func round(value float64) float64 {
	return math.Round(value*resolution) / resolution
}
