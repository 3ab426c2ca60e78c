// Package render turns a zoomed layout into records for a drawing layer:
// pixel rectangles with labels, color keys and tooltip text.
package render

import (
	"strconv"
	"strings"

	"github.com/grafana/profileview/pkg/model"
)

// DefaultCharWidth is the assumed width of a label character in pixels.
const DefaultCharWidth = 10

const ellipsis = "..."

// FormatIdentity renders a call site as "func:line (file)", where file is
// the base name of the path.
func FormatIdentity(id model.Identity) string {
	var b strings.Builder
	b.WriteString(id.Function)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(id.Line))
	b.WriteString(" (")
	b.WriteString(baseName(id.File))
	b.WriteByte(')')
	return b.String()
}

// baseName handles both separators, profiles may come from any platform.
func baseName(path string) string {
	return path[strings.LastIndexAny(path, `/\`)+1:]
}

// TruncateLabel fits the node's name into width pixels, assuming
// DefaultCharWidth pixels per character.
func TruncateLabel(n *model.Node, width float64) string {
	return truncate(FormatIdentity(n.Identity), width, DefaultCharWidth)
}

func truncate(name string, width, charWidth float64) string {
	if charWidth <= 0 {
		charWidth = DefaultCharWidth
	}
	maxChars := width / charWidth
	if maxChars <= 3 {
		return ""
	}
	runes := []rune(name)
	if float64(len(runes)) > maxChars-3 {
		return string(runes[:int(maxChars-3)]) + ellipsis
	}
	return name
}
