package main

import (
	"strings"

	"github.com/aybabtme/rgbterm"
	"github.com/fatih/color"

	"github.com/grafana/profileview/pkg/render"
)

const (
	coldColor = 0xffd651
	hotColor  = 0xf64d3d
)

// paint colors s with the gradient point at progress in [0,1].
func paint(s string, progress float64) string {
	if color.NoColor || s == "" {
		return s
	}
	r := gradient(coldColor, hotColor, 16, progress)
	g := gradient(coldColor, hotColor, 8, progress)
	b := gradient(coldColor, hotColor, 0, progress)
	return rgbterm.FgString(s, r, g, b)
}

func gradient(start, end, offset int, progress float64) uint8 {
	start = (start >> offset) & 0xff
	end = (end >> offset) & 0xff
	return uint8(start + int(float64(end-start)*progress))
}

func paintLabel(rec render.Record) string {
	if !rec.LabelVisible {
		return ""
	}
	return paint(rec.Label, rec.ColorKey.Unit())
}

const barWidth = 10

// bar draws an intensity in [0,1] as a run of blocks.
func bar(v float64) string {
	n := int(v*barWidth + 0.5)
	return paint(strings.Repeat("█", n), v) + strings.Repeat("·", barWidth-n)
}
