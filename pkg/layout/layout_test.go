package layout

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grafana/profileview/pkg/model"
)

const epsilon = 1e-9

func node(name string, w float64, children ...*model.Node) *model.Node {
	return &model.Node{Identity: model.Identity{Function: name}, Weight: w, Children: children}
}

func randomTree(r *rand.Rand, maxDepth, maxChildren int) *model.Tree {
	var gen func(depth int) *model.Node
	gen = func(depth int) *model.Node {
		// weights are deliberately not additive
		n := node(fmt.Sprintf("n%d", r.Int()), float64(r.Intn(100)))
		if depth >= maxDepth {
			return n
		}
		for i := r.Intn(maxChildren + 1); i > 0; i-- {
			n.Children = append(n.Children, gen(depth+1))
		}
		return n
	}
	return model.NewTree(gen(0))
}

func Test_Compute_Simple(t *testing.T) {
	tr := model.NewTree(node("root", 10,
		node("a", 3, node("a1", 1)),
		node("b", 1),
	))
	l := Compute(tr)
	require.Equal(t, 4, l.Len())
	assert.InDelta(t, 1.0/3, l.Band(), epsilon)

	root, _ := l.Rect(0)
	assert.Equal(t, Rect{X0: 0, X1: 1, Y0: 0, Y1: l.Band(), Depth: 0, Node: tr.Root()}, root)

	a, _ := l.Rect(1)
	assert.InDelta(t, 0, a.X0, epsilon)
	assert.InDelta(t, 0.75, a.X1, epsilon)
	assert.InDelta(t, 1.0/3, a.Y0, epsilon)
	assert.InDelta(t, 2.0/3, a.Y1, epsilon)
	assert.Equal(t, 1, a.Depth)

	// a single child takes the whole parent width regardless of its weight
	a1, _ := l.Rect(2)
	assert.InDelta(t, 0, a1.X0, epsilon)
	assert.InDelta(t, 0.75, a1.X1, epsilon)
	assert.InDelta(t, 1, a1.Y1, epsilon)

	b, _ := l.Rect(3)
	assert.InDelta(t, 0.75, b.X0, epsilon)
	assert.Equal(t, 1.0, b.X1)

	assert.InDelta(t, 1, l.DeepestLeafY1(0), epsilon)
	assert.InDelta(t, 2.0/3, l.DeepestLeafY1(3), epsilon)
}

func Test_Compute_ZeroSumSiblings(t *testing.T) {
	tr := model.NewTree(node("root", 0,
		node("a", 0),
		node("b", 0),
		node("c", 0),
		node("d", 0),
	))
	l := Compute(tr)
	for i, id := range []int{1, 2, 3, 4} {
		r, _ := l.Rect(id)
		assert.InDelta(t, float64(i)*0.25, r.X0, epsilon)
		assert.InDelta(t, float64(i+1)*0.25, r.X1, epsilon)
	}
}

func Test_Compute_Empty(t *testing.T) {
	l := Compute(model.NewTree(&model.Node{}))
	assert.True(t, l.Empty())
	require.Equal(t, 1, l.Len())
	r, ok := l.Rect(0)
	require.True(t, ok)
	assert.Equal(t, 0.0, r.X0)
	assert.Equal(t, 1.0, r.X1)
	assert.Equal(t, 1.0, r.Y1)
}

func Test_Compute_CustomWeight(t *testing.T) {
	tr := model.NewTree(node("root", 1,
		node("a", 1),
		node("b", 1),
	))
	// size by something other than the pruning weight
	l := Compute(tr, WithWeight(func(n *model.Node) float64 {
		if n.Identity.Function == "a" {
			return 3
		}
		return 1
	}))
	a, _ := l.Rect(1)
	assert.InDelta(t, 0.75, a.Width(), epsilon)

	l = Compute(tr, WithWeight(func(*model.Node) float64 { return -1 }))
	a, _ = l.Rect(1)
	assert.InDelta(t, 0.5, a.Width(), epsilon)
}

func Test_RectOf(t *testing.T) {
	tr := model.NewTree(node("root", 1, node("a", 1)))
	l := Compute(tr)
	r, ok := l.RectOf(tr.Node(1))
	require.True(t, ok)
	assert.Equal(t, "a", r.Node.Identity.Function)

	_, ok = l.RectOf(node("stranger", 1))
	assert.False(t, ok)
	_, ok = l.Rect(5)
	assert.False(t, ok)
}

func Test_Compute_Invariants(t *testing.T) {
	r := rand.New(rand.NewSource(123))
	for i := 0; i < 50; i++ {
		tr := randomTree(r, 6, 5)
		l := Compute(tr)

		byDepth := map[int][]Rect{}
		for _, rect := range l.Rects() {
			n := rect.Node
			require.LessOrEqual(t, rect.X0, rect.X1)
			require.Less(t, rect.Y0, rect.Y1)
			require.GreaterOrEqual(t, rect.X0, 0.0)
			require.LessOrEqual(t, rect.X1, 1.0)
			byDepth[rect.Depth] = append(byDepth[rect.Depth], rect)

			// containment
			if n.Parent != nil {
				p, _ := l.Rect(n.Parent.ID)
				require.GreaterOrEqual(t, rect.X0, p.X0)
				require.LessOrEqual(t, rect.X1, p.X1)
				require.Equal(t, p.Depth+1, rect.Depth)
			}
			// tiling
			if !n.IsLeaf() {
				var sum float64
				for _, c := range n.Children {
					cr, _ := l.Rect(c.ID)
					sum += cr.Width()
				}
				require.InDelta(t, rect.Width(), sum, epsilon)
			}
		}

		// no overlap at the same depth
		for _, rects := range byDepth {
			sort.Slice(rects, func(i, j int) bool { return rects[i].X0 < rects[j].X0 })
			for j := 1; j < len(rects); j++ {
				require.LessOrEqual(t, rects[j-1].X1, rects[j].X0+epsilon)
			}
		}
		require.Len(t, byDepth[0], 1)
		assert.Equal(t, 0.0, byDepth[0][0].X0)
		assert.Equal(t, 1.0, byDepth[0][0].X1)
	}
}
