package viewer

import (
	"github.com/grafana/profileview/pkg/ingest"
	"github.com/grafana/profileview/pkg/layout"
	"github.com/grafana/profileview/pkg/model"
	"github.com/grafana/profileview/pkg/render"
)

// FlameGraph is a profile prepared for display: pruned once and laid out
// once. It is never modified afterwards and may be shared by any number of
// views.
type FlameGraph struct {
	Summary render.Summary
	Tree    *model.Tree
	Layout  *layout.Layout
}

func NewFlameGraph(p *ingest.FlameGraphProfile, cutoff float64) *FlameGraph {
	t := model.Prune(p.Tree, cutoff, p.Tree.TotalWeight())
	return &FlameGraph{
		Summary: render.Summary{
			ObjectName:     p.ObjectName,
			RunTime:        p.RunTime,
			TotalSamples:   p.TotalSamples,
			SampleInterval: p.SampleInterval,
		},
		Tree:   t,
		Layout: layout.Compute(t),
	}
}

// Empty reports whether there is nothing to draw.
func (fg *FlameGraph) Empty() bool { return fg.Layout.Empty() }
