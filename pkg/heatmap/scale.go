package heatmap

import "math"

const (
	// MinRunTime is the lower end of the color scale, in seconds.
	MinRunTime = 0.000001
	// Exponent flattens the scale so that short lines remain visible next
	// to hot ones.
	Exponent = 0.6
)

// Scale is a power scale from run time onto a color intensity in [0, 1].
type Scale struct {
	Min, Max float64
	Exponent float64
}

// NewScale returns the scale for a profile with the given total run time.
func NewScale(runTime float64) Scale {
	return Scale{Min: MinRunTime, Max: runTime, Exponent: Exponent}
}

// Intensity maps a run time onto [0, 1]. Lines that took no time are not
// colored at all, which is reported by ok being false.
func (s Scale) Intensity(v float64) (intensity float64, ok bool) {
	if v == 0 || math.IsNaN(v) {
		return 0, false
	}
	lo, hi := s.pow(s.Min), s.pow(s.Max)
	if hi == lo {
		return 0.5, true
	}
	t := (s.pow(v) - lo) / (hi - lo)
	return math.Max(0, math.Min(1, t)), true
}

func (s Scale) pow(v float64) float64 {
	if v < 0 {
		return -math.Pow(-v, s.Exponent)
	}
	return math.Pow(v, s.Exponent)
}
