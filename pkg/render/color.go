package render

import (
	"github.com/cespare/xxhash/v2"

	"github.com/grafana/profileview/pkg/model"
)

// ColorKey selects a color from an external scale whose domain is
// [0, 2^32). It is not a color itself.
type ColorKey uint32

// Unit returns the key's position in [0, 1).
func (k ColorKey) Unit() float64 { return float64(k) / (1 << 32) }

// ColorKeyOf returns the node's explicit color hash when the profiler
// supplied one, and otherwise derives the key from the call site.
func ColorKeyOf(n *model.Node) ColorKey {
	if n.ColorHash != nil {
		return ColorKey(*n.ColorHash)
	}
	return KeyOf(n.Identity)
}

// KeyOf hashes the function and file of a call site. The line is left out
// so that every line of a function shares a color.
func KeyOf(id model.Identity) ColorKey {
	h := xxhash.Sum64String(id.Function + " @ " + id.File)
	return ColorKey(uint32(h ^ h>>32))
}
