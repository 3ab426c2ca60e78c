package zoom

import "math"

// Transform is a one-axis zoom: a pixel p is drawn at p*K + X.
type Transform struct {
	K, X float64
}

// Identity leaves pixels where they are.
var Identity = Transform{K: 1}

// Limits bounds a Transform. Scale is the allowed range of K; Extent is
// the pixel range that must stay covered by the Viewport.
type Limits struct {
	Scale    Domain
	Extent   Domain
	Viewport Domain
}

func (t Transform) Apply(p float64) float64 { return p*t.K + t.X }

func (t Transform) Invert(p float64) float64 { return (p - t.X) / t.K }

// ScaleBy multiplies K by factor, keeping the pixel under anchor fixed.
func (t Transform) ScaleBy(factor, anchor float64, lim Limits) Transform {
	k := math.Max(lim.Scale.Lo, math.Min(lim.Scale.Hi, t.K*factor))
	p := t.Invert(anchor)
	return Transform{K: k, X: anchor - p*k}.Constrain(lim)
}

// Pan shifts the transform by dx pixels.
func (t Transform) Pan(dx float64, lim Limits) Transform {
	return Transform{K: t.K, X: t.X + dx}.Constrain(lim)
}

// Constrain translates t so the viewport does not leave the extent.
func (t Transform) Constrain(lim Limits) Transform {
	dx0 := t.Invert(lim.Viewport.Lo) - lim.Extent.Lo
	dx1 := t.Invert(lim.Viewport.Hi) - lim.Extent.Hi
	var shift float64
	switch {
	case dx1 > dx0:
		shift = (dx0 + dx1) / 2
	case dx0 < 0:
		shift = dx0
	case dx1 > 0:
		shift = dx1
	}
	return Transform{K: t.K, X: t.X + t.K*shift}
}

// Rescale returns the part of domain d that is visible through t when d is
// drawn onto the pixel range px.
func (t Transform) Rescale(d, px Domain) (Domain, error) {
	lo, err := Invert(t.Invert(px.Lo), d, px)
	if err != nil {
		return Domain{}, err
	}
	hi, err := Invert(t.Invert(px.Hi), d, px)
	if err != nil {
		return Domain{}, err
	}
	return Domain{Lo: lo, Hi: hi}, nil
}
