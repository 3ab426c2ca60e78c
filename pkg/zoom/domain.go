package zoom

import (
	"errors"
	"fmt"
)

// Domain is a closed interval [Lo, Hi].
type Domain struct {
	Lo, Hi float64
}

// Full is the whole normalized range.
var Full = Domain{Lo: 0, Hi: 1}

func (d Domain) Width() float64 { return d.Hi - d.Lo }

// Valid reports whether the domain is non-degenerate.
func (d Domain) Valid() bool { return d.Lo < d.Hi }

// Contains reports whether o lies within d.
func (d Domain) Contains(o Domain) bool { return o.Lo >= d.Lo && o.Hi <= d.Hi }

// Overlaps reports whether the open intervals intersect.
func (d Domain) Overlaps(o Domain) bool { return o.Lo < d.Hi && o.Hi > d.Lo }

func (d Domain) String() string { return fmt.Sprintf("[%g, %g]", d.Lo, d.Hi) }

// DegenerateDomainError is returned when a mapping is attempted over a
// zero-width domain. Windows never hold such a domain, so seeing this error
// means a caller passed one in.
type DegenerateDomainError struct {
	Domain Domain
}

func (e *DegenerateDomainError) Error() string {
	return fmt.Sprintf("degenerate domain %s", e.Domain)
}

func IsDegenerateDomainError(err error) bool {
	var v *DegenerateDomainError
	return errors.As(err, &v)
}

// ToScreen maps v from the domain d onto the pixel range px. There is no
// clamping: values outside d map outside px.
func ToScreen(v float64, d, px Domain) (float64, error) {
	if d.Hi == d.Lo {
		return 0, &DegenerateDomainError{Domain: d}
	}
	return px.Lo + (v-d.Lo)/(d.Hi-d.Lo)*(px.Hi-px.Lo), nil
}

// Invert maps the pixel p back into the domain d.
func Invert(p float64, d, px Domain) (float64, error) {
	if px.Hi == px.Lo {
		return 0, &DegenerateDomainError{Domain: px}
	}
	return d.Lo + (p-px.Lo)/(px.Hi-px.Lo)*(d.Hi-d.Lo), nil
}
