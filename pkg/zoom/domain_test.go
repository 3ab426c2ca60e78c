package zoom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ToScreen(t *testing.T) {
	for _, tc := range []struct {
		name     string
		v        float64
		d, px    Domain
		expected float64
	}{
		{"identity", 0.5, Full, Full, 0.5},
		{"full range", 0.25, Full, Domain{0, 800}, 200},
		{"zoomed", 0.3, Domain{0.2, 0.4}, Domain{0, 100}, 50},
		{"offset range", 0.4, Domain{0.2, 0.4}, Domain{10, 110}, 110},
		{"outside", 0.1, Domain{0.2, 0.4}, Domain{0, 100}, -50},
		{"inverted range", 0.25, Full, Domain{100, 0}, 75},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ToScreen(tc.v, tc.d, tc.px)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, p, 1e-9)

			v, err := Invert(p, tc.d, tc.px)
			require.NoError(t, err)
			assert.InDelta(t, tc.v, v, 1e-9)
		})
	}
}

func Test_ToScreen_Degenerate(t *testing.T) {
	_, err := ToScreen(0.5, Domain{0.3, 0.3}, Domain{0, 100})
	require.Error(t, err)
	assert.True(t, IsDegenerateDomainError(err))
	assert.EqualError(t, err, "degenerate domain [0.3, 0.3]")

	_, err = Invert(5, Full, Domain{10, 10})
	assert.True(t, IsDegenerateDomainError(err))
}

func Test_Domain(t *testing.T) {
	d := Domain{0.2, 0.6}
	assert.InDelta(t, 0.4, d.Width(), 1e-9)
	assert.True(t, d.Valid())
	assert.False(t, Domain{0.5, 0.5}.Valid())
	assert.True(t, Full.Contains(d))
	assert.False(t, d.Contains(Full))
	assert.True(t, d.Overlaps(Domain{0.5, 0.9}))
	assert.False(t, d.Overlaps(Domain{0.6, 0.9}))
}

func Test_ParseYPin(t *testing.T) {
	p, err := ParseYPin("own-band")
	require.NoError(t, err)
	assert.Equal(t, PinOwnBand, p)
	p, err = ParseYPin("")
	require.NoError(t, err)
	assert.Equal(t, PinDeepestLeaf, p)
	assert.Equal(t, "deepest-leaf", p.String())
	_, err = ParseYPin("sideways")
	assert.Error(t, err)
}

func Test_Transform(t *testing.T) {
	lim := Limits{
		Scale:    Domain{1, 100},
		Extent:   Domain{0, 1000},
		Viewport: Domain{0, 1000},
	}

	tr := Identity.ScaleBy(2, 500, lim)
	assert.Equal(t, Transform{K: 2, X: -500}, tr)
	assert.InDelta(t, 500, tr.Apply(500), 1e-9)
	assert.InDelta(t, 500, tr.Invert(500), 1e-9)

	// cannot zoom out past the identity
	assert.Equal(t, Identity, tr.ScaleBy(0.1, 500, lim))
	// nor beyond the maximum scale
	assert.Equal(t, 100.0, tr.ScaleBy(1000, 0, lim).K)

	// panning is clamped to the extent
	assert.Equal(t, Transform{K: 2, X: 0}, tr.Pan(900, lim))
	assert.Equal(t, Transform{K: 2, X: -1000}, tr.Pan(-900, lim))
	assert.Equal(t, Transform{K: 2, X: -400}, tr.Pan(100, lim))

	d, err := tr.Rescale(Domain{1, 11}, Domain{0, 1000})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, d.Lo, 1e-9)
	assert.InDelta(t, 8.5, d.Hi, 1e-9)

	d, err = Identity.Rescale(Domain{1, 11}, Domain{0, 1000})
	require.NoError(t, err)
	assert.Equal(t, Domain{1, 11}, d)
}
