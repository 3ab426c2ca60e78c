package model

import (
	"fmt"
	"math"
)

// BuildTree converts a decoded JSON call tree into a Tree. Nodes are
// objects shaped {stack: [func, file, line], sampleCount, colorHash,
// children: [...]}. An empty object means the profiler recorded nothing and
// yields the empty tree.
func BuildTree(raw any) (*Tree, error) {
	obj, ok := raw.(map[string]any)
	if raw == nil || (ok && len(obj) == 0) {
		return NewTree(&Node{}), nil
	}

	type entry struct {
		raw    any
		path   string
		parent *Node
	}
	var root *Node
	stack := NewStack[entry]()
	stack.Push(entry{raw: raw, path: "$"})
	for {
		e, ok := stack.Pop()
		if !ok {
			break
		}
		n, children, err := buildNode(e.raw, e.path)
		if err != nil {
			return nil, err
		}
		if e.parent == nil {
			root = n
		} else {
			e.parent.Children = append(e.parent.Children, n)
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack.Push(entry{raw: children[i], path: fmt.Sprintf("%s.children[%d]", e.path, i), parent: n})
		}
	}
	// Children were pushed in reverse, so they are appended in order.
	return NewTree(root), nil
}

func buildNode(raw any, path string) (*Node, []any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, malformed(path, "node is %T, not an object", raw)
	}
	n := new(Node)

	w, ok := obj["sampleCount"]
	if !ok || w == nil {
		return nil, nil, &MalformedProfileError{Path: path + ".sampleCount", Err: errMissingWeight}
	}
	weight, ok := toFloat(w)
	if !ok {
		return nil, nil, malformed(path+".sampleCount", "weight is %T, not a number", w)
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return nil, nil, malformed(path+".sampleCount", "invalid weight %v", weight)
	}
	n.Weight = weight

	if s, ok := obj["stack"]; ok && s != nil {
		id, err := toIdentity(s, path+".stack")
		if err != nil {
			return nil, nil, err
		}
		n.Identity = id
	}

	if h, ok := obj["colorHash"]; ok && h != nil {
		f, ok := toFloat(h)
		if !ok || f < 0 || f > math.MaxUint32 {
			return nil, nil, malformed(path+".colorHash", "invalid color hash %v", h)
		}
		v := uint32(f)
		n.ColorHash = &v
	}

	var children []any
	if c, ok := obj["children"]; ok && c != nil {
		children, ok = c.([]any)
		if !ok {
			return nil, nil, &MalformedProfileError{Path: path + ".children", Err: errNotSequence}
		}
	}
	return n, children, nil
}

func toIdentity(raw any, path string) (Identity, error) {
	s, ok := raw.([]any)
	if !ok || len(s) != 3 {
		return Identity{}, malformed(path, "stack must be [func, file, line]")
	}
	fn, ok := s[0].(string)
	if !ok {
		return Identity{}, malformed(path+"[0]", "function name is %T, not a string", s[0])
	}
	file, ok := s[1].(string)
	if !ok {
		return Identity{}, malformed(path+"[1]", "file name is %T, not a string", s[1])
	}
	line, ok := toFloat(s[2])
	if !ok {
		return Identity{}, malformed(path+"[2]", "line number is %T, not a number", s[2])
	}
	return Identity{Function: fn, File: file, Line: int(line)}, nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// StackSample is a sampled call stack, root frame first.
type StackSample struct {
	Frames []Identity
	Count  float64
}

// FoldStacks merges stack samples into a call tree by common-prefix
// folding. The synthetic root carries the total count; every node weighs
// the sum of the samples passing through it. Siblings keep first-seen order.
func FoldStacks(samples []StackSample) *Tree {
	root := &Node{Identity: Identity{Function: "all"}}
	index := map[*Node]map[Identity]*Node{}
	for _, s := range samples {
		if s.Count <= 0 {
			continue
		}
		root.Weight += s.Count
		current := root
		for _, f := range s.Frames {
			children, ok := index[current]
			if !ok {
				children = make(map[Identity]*Node)
				index[current] = children
			}
			next, ok := children[f]
			if !ok {
				next = &Node{Identity: f}
				children[f] = next
				current.Children = append(current.Children, next)
			}
			next.Weight += s.Count
			current = next
		}
	}
	return NewTree(root)
}
