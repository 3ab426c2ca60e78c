// Package layout partitions a call tree into axis-aligned rectangles in the
// normalized [0,1]² space. The x axis is subdivided proportionally to node
// weight within each sibling group; the y axis is split into equal depth
// bands.
package layout

import (
	"github.com/samber/lo"

	"github.com/grafana/profileview/pkg/model"
)

// Rect is the normalized rectangle of a single node.
type Rect struct {
	X0, X1 float64
	Y0, Y1 float64
	Depth  int
	Node   *model.Node
}

func (r Rect) Width() float64  { return r.X1 - r.X0 }
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Layout holds one Rect per tree node, indexed by node ID. It is never
// modified after Compute returns and may be shared between views.
type Layout struct {
	tree    *model.Tree
	rects   []Rect
	deepest []float64
	band    float64
}

type options struct {
	weight func(*model.Node) float64
}

type Option func(*options)

// WithWeight overrides the metric used to size siblings. By default the
// node weight is used.
func WithWeight(fn func(*model.Node) float64) Option {
	return func(o *options) { o.weight = fn }
}

// Compute lays out the tree.
func Compute(t *model.Tree, opts ...Option) *Layout {
	o := options{weight: func(n *model.Node) float64 { return n.Weight }}
	for _, opt := range opts {
		opt(&o)
	}
	weight := func(n *model.Node) float64 {
		if w := o.weight(n); w > 0 {
			return w
		}
		return 0
	}

	l := &Layout{
		tree:  t,
		rects: make([]Rect, t.Len()),
		band:  1 / float64(t.MaxDepth()),
	}
	root := t.Root()
	l.rects[root.ID] = Rect{X0: 0, X1: 1, Y0: 0, Y1: l.band, Node: root}

	stack := model.NewStack[*model.Node]()
	stack.Push(root)
	widths := make([]float64, 0, 16)
	for {
		n, ok := stack.Pop()
		if !ok {
			break
		}
		if len(n.Children) == 0 {
			continue
		}
		parent := l.rects[n.ID]
		widths = l.childWidths(widths[:0], parent.Width(), n.Children, weight)

		depth := parent.Depth + 1
		y0 := float64(depth) * l.band
		cursor := parent.X0
		for i, c := range n.Children {
			x1 := cursor + widths[i]
			if i == len(n.Children)-1 || x1 > parent.X1 {
				x1 = parent.X1
			}
			l.rects[c.ID] = Rect{X0: cursor, X1: x1, Y0: y0, Y1: y0 + l.band, Depth: depth, Node: c}
			cursor = x1
			stack.Push(c)
		}
	}
	l.computeDeepest()
	return l
}

func (l *Layout) childWidths(dst []float64, parentWidth float64, children []*model.Node, weight func(*model.Node) float64) []float64 {
	sum := lo.SumBy(children, weight)
	for _, c := range children {
		if sum == 0 {
			dst = append(dst, parentWidth/float64(len(children)))
			continue
		}
		dst = append(dst, parentWidth*(weight(c)/sum))
	}
	if total := lo.Sum(dst); total > parentWidth && total > 0 {
		scale := parentWidth / total
		for i := range dst {
			dst[i] *= scale
		}
	}
	return dst
}

// computeDeepest records, for every node, the bottom edge of its deepest
// descendant leaf. IDs are assigned in pre-order, so walking them backwards
// visits children before their parents.
func (l *Layout) computeDeepest() {
	l.deepest = make([]float64, len(l.rects))
	nodes := l.tree.Nodes()
	for id := len(nodes) - 1; id >= 0; id-- {
		n := nodes[id]
		if n.IsLeaf() {
			l.deepest[id] = l.rects[id].Y1
			continue
		}
		var max float64
		for _, c := range n.Children {
			if l.deepest[c.ID] > max {
				max = l.deepest[c.ID]
			}
		}
		l.deepest[id] = max
	}
}

func (l *Layout) Tree() *model.Tree { return l.tree }

// Band is the height of a single depth level.
func (l *Layout) Band() float64 { return l.band }

// Empty reports whether the underlying tree has no data.
func (l *Layout) Empty() bool { return l.tree.Empty() }

func (l *Layout) Len() int { return len(l.rects) }

// Rect returns the rectangle of the node with the given id.
func (l *Layout) Rect(id int) (Rect, bool) {
	if id < 0 || id >= len(l.rects) {
		return Rect{}, false
	}
	return l.rects[id], true
}

func (l *Layout) RectOf(n *model.Node) (Rect, bool) {
	r, ok := l.Rect(n.ID)
	if !ok || r.Node != n {
		return Rect{}, false
	}
	return r, true
}

// Rects returns all rectangles in pre-order. The slice must not be modified.
func (l *Layout) Rects() []Rect { return l.rects }

// DeepestLeafY1 returns the largest Y1 among the leaves below the node, or
// the node's own Y1 when it is a leaf.
func (l *Layout) DeepestLeafY1(id int) float64 {
	if id < 0 || id >= len(l.deepest) {
		return 0
	}
	return l.deepest[id]
}
