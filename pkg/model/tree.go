package model

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Identity uniquely identifies a call site.
type Identity struct {
	Function string
	File     string
	Line     int
}

func (id Identity) String() string {
	return fmt.Sprintf("%s:%d (%s)", id.Function, id.Line, id.File)
}

// Node is a single profiled unit of a call tree. Weight is either the
// cumulative time or the sample count of the node, depending on the profile;
// it is not required to equal the sum of the children weights.
type Node struct {
	ID        int
	Identity  Identity
	Weight    float64
	ColorHash *uint32

	Parent   *Node
	Children []*Node
}

func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Depth returns the distance to the root.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// Tree is an immutable call tree. Nodes are addressed by their ID, which
// is the node's position in a pre-order traversal.
type Tree struct {
	root     *Node
	nodes    []*Node
	maxDepth int
}

// NewTree takes ownership of the node graph rooted at root, assigns IDs
// and parent links in pre-order.
func NewTree(root *Node) *Tree {
	t := &Tree{root: root}
	if root == nil {
		t.root = &Node{}
	}
	type entry struct {
		node   *Node
		parent *Node
		depth  int
	}
	stack := NewStack[entry]()
	stack.Push(entry{node: t.root})
	for {
		e, ok := stack.Pop()
		if !ok {
			break
		}
		e.node.ID = len(t.nodes)
		e.node.Parent = e.parent
		t.nodes = append(t.nodes, e.node)
		if e.depth+1 > t.maxDepth {
			t.maxDepth = e.depth + 1
		}
		for i := len(e.node.Children) - 1; i >= 0; i-- {
			stack.Push(entry{node: e.node.Children[i], parent: e.node, depth: e.depth + 1})
		}
	}
	return t
}

func (t *Tree) Root() *Node { return t.root }

func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

// Nodes returns all nodes in pre-order. The slice must not be modified.
func (t *Tree) Nodes() []*Node { return t.nodes }

// MaxDepth returns the number of depth levels, the root level included.
func (t *Tree) MaxDepth() int { return t.maxDepth }

// TotalWeight is the weight of the root.
func (t *Tree) TotalWeight() float64 { return t.root.Weight }

// Empty reports whether the tree carries no data: a zero-weight root
// without children.
func (t *Tree) Empty() bool {
	return t.root.Weight == 0 && len(t.root.Children) == 0
}

// Walk visits nodes in pre-order until fn returns false.
func (t *Tree) Walk(fn func(*Node) bool) {
	for _, n := range t.nodes {
		if !fn(n) {
			return
		}
	}
}

func (t *Tree) String() string {
	type branch struct {
		nodes []*Node
		treeprint.Tree
	}
	tree := treeprint.New()
	tree.SetValue(nodeString(t.root))
	remaining := []*branch{{nodes: t.root.Children, Tree: tree}}
	for len(remaining) > 0 {
		current := remaining[0]
		remaining = remaining[1:]
		for _, n := range current.nodes {
			if len(n.Children) > 0 {
				remaining = append(remaining, &branch{nodes: n.Children, Tree: current.Tree.AddBranch(nodeString(n))})
			} else {
				current.Tree.AddNode(nodeString(n))
			}
		}
	}
	return strings.TrimRight(tree.String(), "\n")
}

func nodeString(n *Node) string {
	return fmt.Sprintf("%s: weight %g", n.Identity, n.Weight)
}
