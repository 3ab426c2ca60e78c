// Package zoom tracks the visible sub-rectangle of a layout and maps
// normalized coordinates onto the screen.
package zoom

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/grafana/profileview/pkg/layout"
)

type State int

const (
	StateFull State = iota
	StateFocused
)

func (s State) String() string {
	switch s {
	case StateFull:
		return "full"
	case StateFocused:
		return "focused"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// YPin selects where the bottom of the y domain lands on zoom-in.
type YPin int

const (
	// PinDeepestLeaf reveals the focused node and everything stacked below it.
	PinDeepestLeaf YPin = iota
	// PinOwnBand stops at the focused node's own row.
	PinOwnBand
)

func (p YPin) String() string {
	switch p {
	case PinDeepestLeaf:
		return "deepest-leaf"
	case PinOwnBand:
		return "own-band"
	default:
		return fmt.Sprintf("YPin(%d)", int(p))
	}
}

func ParseYPin(s string) (YPin, error) {
	switch s {
	case "", "deepest-leaf":
		return PinDeepestLeaf, nil
	case "own-band":
		return PinOwnBand, nil
	}
	return 0, errors.Errorf("unknown y pin %q, expected deepest-leaf or own-band", s)
}

// Window is the zoom state of a single view. It must not be shared between
// views; the layout it looks at may be.
type Window struct {
	layout *layout.Layout
	pin    YPin

	state State
	focus int
	x, y  Domain
}

type Option func(*Window)

func WithYPin(p YPin) Option {
	return func(w *Window) { w.pin = p }
}

func NewWindow(l *layout.Layout, opts ...Option) *Window {
	w := &Window{layout: l}
	for _, opt := range opts {
		opt(w)
	}
	w.ZoomOut()
	return w
}

// ZoomIn focuses the node with the given id. The x domain becomes the node's
// horizontal extent, the y domain starts at the node's row. A node without
// horizontal extent cannot be focused; the window is left unchanged.
func (w *Window) ZoomIn(id int) error {
	r, ok := w.layout.Rect(id)
	if !ok {
		return errors.Errorf("zoom: unknown node %d", id)
	}
	x := Domain{Lo: r.X0, Hi: r.X1}
	if !x.Valid() {
		return &DegenerateDomainError{Domain: x}
	}
	y := Domain{Lo: r.Y0, Hi: r.Y1}
	if w.pin == PinDeepestLeaf {
		y.Hi = w.layout.DeepestLeafY1(id)
	}
	if !y.Valid() {
		return &DegenerateDomainError{Domain: y}
	}
	// Focusing something outside the current window (an ancestor, or a
	// node hidden by the current focus) starts from the full view again.
	if !w.x.Contains(x) || !w.y.Contains(y) {
		w.ZoomOut()
	}
	w.state = StateFocused
	w.focus = id
	w.x, w.y = x, y
	return nil
}

// ZoomOut resets the window to the full layout. It is idempotent.
func (w *Window) ZoomOut() {
	w.state = StateFull
	w.focus = -1
	w.x, w.y = Full, Full
}

func (w *Window) State() State { return w.state }

// Focus returns the focused node id.
func (w *Window) Focus() (int, bool) { return w.focus, w.state == StateFocused }

func (w *Window) X() Domain { return w.x }
func (w *Window) Y() Domain { return w.y }

func (w *Window) Layout() *layout.Layout { return w.layout }

// Snapshot is a value copy of the window, for drawing layers that tween
// between the states before and after a transition.
type Snapshot struct {
	State State
	Focus int
	X, Y  Domain
}

func (w *Window) Snapshot() Snapshot {
	return Snapshot{State: w.state, Focus: w.focus, X: w.x, Y: w.y}
}

// Viewport is the pixel size of the drawing area.
type Viewport struct {
	Width, Height float64
}

func (v Viewport) xRange() Domain { return Domain{Lo: 0, Hi: v.Width} }
func (v Viewport) yRange() Domain { return Domain{Lo: 0, Hi: v.Height} }

// ScreenRect is a rectangle in pixels.
type ScreenRect struct {
	X0, Y0, X1, Y1 float64
}

func (r ScreenRect) Width() float64  { return r.X1 - r.X0 }
func (r ScreenRect) Height() float64 { return r.Y1 - r.Y0 }

// Visible reports whether the rectangle intersects the window.
func (w *Window) Visible(r layout.Rect) bool {
	return w.x.Overlaps(Domain{Lo: r.X0, Hi: r.X1}) && w.y.Overlaps(Domain{Lo: r.Y0, Hi: r.Y1})
}

// Project maps a layout rectangle through the window onto the viewport.
func (w *Window) Project(r layout.Rect, vp Viewport) (ScreenRect, error) {
	var (
		s   ScreenRect
		err error
	)
	if s.X0, err = ToScreen(r.X0, w.x, vp.xRange()); err != nil {
		return s, err
	}
	if s.X1, err = ToScreen(r.X1, w.x, vp.xRange()); err != nil {
		return s, err
	}
	if s.Y0, err = ToScreen(r.Y0, w.y, vp.yRange()); err != nil {
		return s, err
	}
	if s.Y1, err = ToScreen(r.Y1, w.y, vp.yRange()); err != nil {
		return s, err
	}
	return s, nil
}
