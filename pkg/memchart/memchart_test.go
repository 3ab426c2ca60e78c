package memchart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grafana/profileview/pkg/zoom"
)

func linearEvents(n int) []Event {
	events := make([]Event, n)
	for i := range events {
		events[i] = Event{Index: i + 1, Line: 100 + i, MemoryMB: float64(10 + i), Function: "main", File: "main.py"}
	}
	return events
}

func Test_Domains(t *testing.T) {
	c := New(linearEvents(20), nil, zoom.Viewport{Width: 200, Height: 100})
	assert.Equal(t, zoom.Domain{Lo: 1, Hi: 20}, c.X())
	assert.InDelta(t, 8, c.Y().Lo, 1e-9)
	assert.InDelta(t, 34.8, c.Y().Hi, 1e-9)

	x, y, err := c.Point(c.Events()[0])
	require.NoError(t, err)
	assert.Equal(t, 0.0, x)
	assert.InDelta(t, 100-200/26.8, y, 1e-9)

	single := New([]Event{{Index: 1}}, nil, zoom.Viewport{Width: 200, Height: 100})
	assert.Equal(t, zoom.Domain{Lo: 0.5, Hi: 1.5}, single.X())
	assert.Equal(t, zoom.Domain{Lo: -0.5, Hi: 0.5}, single.Y())
	e, ok := single.Closest(170)
	require.True(t, ok)
	assert.Equal(t, 1, e.Index)
}

func Test_Closest(t *testing.T) {
	c := New(linearEvents(20), nil, zoom.Viewport{Width: 200, Height: 100})
	for _, tc := range []struct {
		px    float64
		index int
	}{
		{0, 1},
		{100, 11},
		{200, 20},
		{-50, 1},
		{1000, 20},
	} {
		e, ok := c.Closest(tc.px)
		require.True(t, ok)
		assert.Equal(t, tc.index, e.Index, "pixel %g", tc.px)
	}

	c.Zoom(2, 0)
	e, _ := c.Closest(100)
	assert.Equal(t, 6, e.Index)

	_, ok := New(nil, nil, zoom.Viewport{Width: 200, Height: 100}).Closest(10)
	assert.False(t, ok)
}

func Test_ZoomAndPan(t *testing.T) {
	c := New(linearEvents(20), nil, zoom.Viewport{Width: 200, Height: 100})
	visible, err := c.VisibleX()
	require.NoError(t, err)
	assert.Equal(t, zoom.Domain{Lo: 1, Hi: 20}, visible)

	c.Zoom(2, 0)
	visible, err = c.VisibleX()
	require.NoError(t, err)
	assert.InDelta(t, 1, visible.Lo, 1e-9)
	assert.InDelta(t, 10.5, visible.Hi, 1e-9)

	c.Pan(-50)
	visible, _ = c.VisibleX()
	assert.InDelta(t, 3.375, visible.Lo, 1e-9)
	assert.InDelta(t, 12.875, visible.Hi, 1e-9)

	// panning past the left edge is stopped at the edge
	c.Pan(100)
	assert.Equal(t, zoom.Transform{K: 2, X: 0}, c.Transform())

	c.Zoom(1000, 0)
	assert.Equal(t, float64(MaxScale), c.Transform().K)
	c.Zoom(0.0001, 0)
	assert.Equal(t, float64(MinScale), c.Transform().K)

	c.Zoom(4, 100)
	c.Reset()
	assert.Equal(t, zoom.Identity, c.Transform())
}

func Test_TickValues(t *testing.T) {
	c := New(linearEvents(3), nil, zoom.Viewport{Width: 200, Height: 100})
	assert.Equal(t, []int{1, 2, 3}, c.TickValues())
	c = New(linearEvents(10), nil, zoom.Viewport{Width: 200, Height: 100})
	assert.Nil(t, c.TickValues())
}

func Test_Tooltip(t *testing.T) {
	e := Event{Index: 10, Line: 11, MemoryMB: 15, Function: "<func>", File: "foo.py"}
	assert.Equal(t,
		"<p><b>Executed line:</b> 10</p>"+
			"<p><b>Line number:</b> 11</p>"+
			"<p><b>Function name:</b> [func]</p>"+
			"<p><b>Filename:</b> foo.py</p>"+
			"<p><b>Memory usage:</b> 15 MB</p>",
		Tooltip(e))

	e.Function = "<genexpr><lambda>"
	assert.Contains(t, Tooltip(e), "[genexpr][lambda]")
}

func Test_Legend(t *testing.T) {
	assert.Equal(t,
		"<p><b>Object name:</b> main.py</p><p><b>Total lines executed:</b> 42</p>",
		Legend("main.py", 42))
}

func Test_Objects(t *testing.T) {
	objects := []ObjectCount{{Name: "dict", Count: 20}, {Name: "list", Count: 40}}
	c := New(linearEvents(1), objects, zoom.Viewport{Width: 200, Height: 100})
	assert.Equal(t, objects, c.Objects())
}
