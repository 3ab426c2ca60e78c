package render

import (
	"github.com/grafana/profileview/pkg/model"
	"github.com/grafana/profileview/pkg/zoom"
)

// Options tune label placement.
type Options struct {
	CharWidth float64
	// Labels are hidden in rectangles that are not taller than this.
	MinLabelHeight float64
}

func DefaultOptions() Options {
	return Options{
		CharWidth:      DefaultCharWidth,
		MinLabelHeight: 18,
	}
}

// Record is a render-ready rectangle in pixels.
type Record struct {
	X0, Y0, X1, Y1 float64
	Depth          int
	Label          string
	LabelVisible   bool
	ColorKey       ColorKey
	Node           *model.Node
}

// Records returns one record per rectangle visible through the window, in
// pre-order. An empty profile has nothing to draw and yields no records.
func Records(w *zoom.Window, vp zoom.Viewport, opts Options) ([]Record, error) {
	l := w.Layout()
	if l.Empty() {
		return nil, nil
	}
	res := make([]Record, 0, l.Len())
	for _, r := range l.Rects() {
		if !w.Visible(r) {
			continue
		}
		s, err := w.Project(r, vp)
		if err != nil {
			return nil, err
		}
		label := truncate(FormatIdentity(r.Node.Identity), s.Width(), opts.CharWidth)
		res = append(res, Record{
			X0:           s.X0,
			Y0:           s.Y0,
			X1:           s.X1,
			Y1:           s.Y1,
			Depth:        r.Depth,
			Label:        label,
			LabelVisible: label != "" && s.Height() > opts.MinLabelHeight,
			ColorKey:     ColorKeyOf(r.Node),
			Node:         r.Node,
		})
	}
	return res, nil
}
