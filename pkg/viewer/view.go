package viewer

import (
	"github.com/pkg/errors"

	"github.com/grafana/profileview/pkg/render"
	"github.com/grafana/profileview/pkg/zoom"
)

// View is a single viewer of a flame graph. Each view owns its zoom window,
// the flame graph itself is shared.
type View struct {
	fg       *FlameGraph
	window   *zoom.Window
	viewport zoom.Viewport
	opts     render.Options
}

func NewView(fg *FlameGraph, cfg Config) (*View, error) {
	pin, err := zoom.ParseYPin(cfg.YPin)
	if err != nil {
		return nil, err
	}
	return &View{
		fg:       fg,
		window:   zoom.NewWindow(fg.Layout, zoom.WithYPin(pin)),
		viewport: cfg.viewport(),
		opts:     cfg.renderOptions(),
	}, nil
}

func (v *View) FlameGraph() *FlameGraph { return v.fg }

func (v *View) Window() *zoom.Window { return v.window }

func (v *View) ZoomIn(id int) error { return v.window.ZoomIn(id) }

func (v *View) ZoomOut() { v.window.ZoomOut() }

// Resize changes the viewport; the zoom state is kept.
func (v *View) Resize(vp zoom.Viewport) { v.viewport = vp }

// NoData reports whether the view should show render.NoDataMessage instead
// of records.
func (v *View) NoData() bool { return v.fg.Empty() }

func (v *View) Records() ([]render.Record, error) {
	return render.Records(v.window, v.viewport, v.opts)
}

// Tooltip reports a node's share of the profile's sample count, falling
// back to the root weight for profiles that do not record one.
func (v *View) Tooltip(id int) (string, error) {
	n := v.fg.Tree.Node(id)
	if n == nil {
		return "", errors.Errorf("unknown node %d", id)
	}
	total := v.fg.Summary.TotalSamples
	if total <= 0 {
		total = v.fg.Tree.TotalWeight()
	}
	return render.Tooltip(n, total), nil
}

func (v *View) Legend() string { return render.Legend(v.fg.Summary) }
