package model

// Prune returns a copy of t without the subtrees whose weight share of
// totalWeight is below cutoff. A removed node takes its whole subtree with
// it; the root always survives. With a zero totalWeight or a non-positive
// cutoff nothing is removed. The input tree is left untouched.
func Prune(t *Tree, cutoff, totalWeight float64) *Tree {
	keep := func(n *Node) bool {
		if totalWeight == 0 || cutoff <= 0 {
			return true
		}
		return n.Weight/totalWeight >= cutoff
	}

	type entry struct {
		src, dst *Node
	}
	root := cloneNode(t.root)
	stack := NewStack[entry]()
	stack.Push(entry{src: t.root, dst: root})
	for {
		e, ok := stack.Pop()
		if !ok {
			break
		}
		for _, c := range e.src.Children {
			if !keep(c) {
				continue
			}
			dst := cloneNode(c)
			e.dst.Children = append(e.dst.Children, dst)
			stack.Push(entry{src: c, dst: dst})
		}
	}
	return NewTree(root)
}

func cloneNode(n *Node) *Node {
	c := &Node{
		Identity: n.Identity,
		Weight:   n.Weight,
	}
	if n.ColorHash != nil {
		h := *n.ColorHash
		c.ColorHash = &h
	}
	return c
}
