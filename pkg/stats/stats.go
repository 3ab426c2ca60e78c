// Package stats holds the percentage arithmetic shared by tooltips and
// legends of every visualization.
package stats

import "math"

// PercentageOf returns part as a percentage of whole, rounded to thousandths
// of a percent. A zero whole yields 0.
func PercentageOf(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	// round half up, not away from zero
	return math.Floor(part/whole*100000+0.5) / 1000
}

// Share is a part of a whole with its precomputed percentage.
type Share struct {
	Part       float64
	Whole      float64
	Percentage float64
}

func NewShare(part, whole float64) Share {
	return Share{Part: part, Whole: whole, Percentage: PercentageOf(part, whole)}
}

// Empty reports whether there is nothing to share, i.e. the whole is zero.
func (s Share) Empty() bool { return s.Whole == 0 }
