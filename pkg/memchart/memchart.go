// Package memchart holds the coordinate math of the memory-over-time chart:
// domains, the horizontal zoom, and pointer lookups.
package memchart

import (
	"math"
	"strconv"
	"strings"

	"github.com/grafana/profileview/pkg/zoom"
)

const (
	// The y domain is padded so the curve never touches the frame.
	minRangeFactor = 0.8
	maxRangeFactor = 1.2

	// With fewer events than this the axis labels every event.
	TicksNumber = 10

	MinScale = 1
	MaxScale = 100
)

// Event is the memory usage after a single executed line. Index counts
// executed lines starting from 1.
type Event struct {
	Index    int
	Line     int
	MemoryMB float64
	Function string
	File     string
}

type ObjectCount struct {
	Name  string
	Count int64
}

// Chart is the state of one memory chart. It is not safe for concurrent
// use.
type Chart struct {
	events  []Event
	objects []ObjectCount

	x, y     zoom.Domain
	viewport zoom.Viewport
	limits   zoom.Limits
	t        zoom.Transform
}

func New(events []Event, objects []ObjectCount, vp zoom.Viewport) *Chart {
	c := &Chart{
		events:   events,
		objects:  objects,
		x:        zoom.Full,
		y:        zoom.Full,
		viewport: vp,
		t:        zoom.Identity,
	}
	if len(events) > 0 {
		c.x = widen(extent(events, func(e Event) float64 { return float64(e.Index) }))
		y := extent(events, func(e Event) float64 { return e.MemoryMB })
		c.y = widen(zoom.Domain{Lo: minRangeFactor * y.Lo, Hi: maxRangeFactor * y.Hi})
	}
	px := zoom.Domain{Lo: 0, Hi: vp.Width}
	c.limits = zoom.Limits{
		Scale:    zoom.Domain{Lo: MinScale, Hi: MaxScale},
		Extent:   px,
		Viewport: px,
	}
	return c
}

func extent(events []Event, fn func(Event) float64) zoom.Domain {
	d := zoom.Domain{Lo: math.Inf(1), Hi: math.Inf(-1)}
	for _, e := range events {
		v := fn(e)
		d.Lo = math.Min(d.Lo, v)
		d.Hi = math.Max(d.Hi, v)
	}
	return d
}

// widen keeps a single-valued extent drawable.
func widen(d zoom.Domain) zoom.Domain {
	if d.Valid() {
		return d
	}
	return zoom.Domain{Lo: d.Lo - 0.5, Hi: d.Hi + 0.5}
}

func (c *Chart) Events() []Event { return c.events }

// Objects returns the object counts in input order.
func (c *Chart) Objects() []ObjectCount { return c.objects }

func (c *Chart) X() zoom.Domain { return c.x }
func (c *Chart) Y() zoom.Domain { return c.y }

func (c *Chart) Transform() zoom.Transform { return c.t }

// Zoom scales the chart by factor around the pointer pixel anchor.
func (c *Chart) Zoom(factor, anchor float64) {
	c.t = c.t.ScaleBy(factor, anchor, c.limits)
}

// Pan shifts the chart by dx pixels.
func (c *Chart) Pan(dx float64) {
	c.t = c.t.Pan(dx, c.limits)
}

func (c *Chart) Reset() { c.t = zoom.Identity }

func (c *Chart) xRange() zoom.Domain { return zoom.Domain{Lo: 0, Hi: c.viewport.Width} }

// The y axis grows upwards.
func (c *Chart) yRange() zoom.Domain { return zoom.Domain{Lo: c.viewport.Height, Hi: 0} }

// VisibleX returns the range of event indices under the current zoom.
func (c *Chart) VisibleX() (zoom.Domain, error) {
	return c.t.Rescale(c.x, c.xRange())
}

// Point returns the pixel position of an event under the current zoom.
func (c *Chart) Point(e Event) (x, y float64, err error) {
	if x, err = zoom.ToScreen(float64(e.Index), c.x, c.xRange()); err != nil {
		return 0, 0, err
	}
	if y, err = zoom.ToScreen(e.MemoryMB, c.y, c.yRange()); err != nil {
		return 0, 0, err
	}
	return c.t.Apply(x), y, nil
}

// Closest returns the event under the pointer pixel px.
func (c *Chart) Closest(px float64) (Event, bool) {
	if len(c.events) == 0 {
		return Event{}, false
	}
	v, err := zoom.Invert(c.t.Invert(px), c.x, c.xRange())
	if err != nil {
		return Event{}, false
	}
	i := int(math.Floor(v+0.5)) - 1
	i = max(0, min(len(c.events)-1, i))
	return c.events[i], true
}

// TickValues returns explicit axis ticks, one per event Index, when there
// are too few events for the axis to pick them, and nil otherwise.
func (c *Chart) TickValues() []int {
	if len(c.events) >= TicksNumber {
		return nil
	}
	ticks := make([]int, len(c.events))
	for i, e := range c.events {
		ticks[i] = e.Index
	}
	return ticks
}

var brackets = strings.NewReplacer("<", "[", ">", "]")

func Tooltip(e Event) string {
	return "<p><b>Executed line:</b> " + strconv.Itoa(e.Index) + "</p>" +
		"<p><b>Line number:</b> " + strconv.Itoa(e.Line) + "</p>" +
		"<p><b>Function name:</b> " + brackets.Replace(e.Function) + "</p>" +
		"<p><b>Filename:</b> " + e.File + "</p>" +
		"<p><b>Memory usage:</b> " + strconv.FormatFloat(e.MemoryMB, 'f', -1, 64) + " MB</p>"
}

func Legend(objectName string, totalEvents int) string {
	return "<p><b>Object name:</b> " + objectName + "</p>" +
		"<p><b>Total lines executed:</b> " + strconv.Itoa(totalEvents) + "</p>"
}
