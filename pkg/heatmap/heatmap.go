// Package heatmap aggregates per-line timing of profiled source files into
// listings that a code browser can color.
package heatmap

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/grafana/profileview/pkg/stats"
)

type Kind int

const (
	KindLine Kind = iota
	KindSkip
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindSkip:
		return "skip"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SourceEntry is either a source line or a run of lines the profiler left
// out. For skips, Count holds the number of omitted lines.
type SourceEntry struct {
	Kind  Kind
	Line  int
	Text  string
	Count int
}

// Module is the profile of a single source file. Heatmap and
// ExecutionCount are keyed by line number.
type Module struct {
	Name           string
	RunTime        float64
	Source         []SourceEntry
	Heatmap        map[int]float64
	ExecutionCount map[int]int64
}

// Row is one rendered row of a listing. Index is the position of the row
// among the line rows, or -1 for a skip row.
type Row struct {
	Kind    Kind
	Index   int
	Line    int
	Text    string
	Skipped int
	Time    float64
	Count   int64
}

func (r Row) String() string {
	if r.Kind == KindSkip {
		return strconv.Itoa(r.Skipped) + " lines skipped"
	}
	return strconv.Itoa(r.Line) + " " + r.Text
}

// Listing is a module prepared for display. TimeMap and CountMap are keyed
// by row index, not by line number, so that hovering the n-th line row finds
// its numbers directly.
type Listing struct {
	Module   string
	RunTime  float64
	Rows     []Row
	TimeMap  map[int]float64
	CountMap map[int]int64
}

func Aggregate(m Module) Listing {
	l := Listing{
		Module:   m.Name,
		RunTime:  m.RunTime,
		Rows:     make([]Row, 0, len(m.Source)),
		TimeMap:  make(map[int]float64),
		CountMap: make(map[int]int64),
	}
	idx := 0
	for _, e := range m.Source {
		switch e.Kind {
		case KindLine:
			t, c := m.Heatmap[e.Line], m.ExecutionCount[e.Line]
			l.Rows = append(l.Rows, Row{Kind: KindLine, Index: idx, Line: e.Line, Text: e.Text, Time: t, Count: c})
			l.TimeMap[idx] = t
			l.CountMap[idx] = c
			idx++
		case KindSkip:
			l.Rows = append(l.Rows, Row{Kind: KindSkip, Index: -1, Skipped: e.Count})
		}
	}
	return l
}

// Lines returns the number of line rows.
func (l Listing) Lines() int { return len(l.TimeMap) }

// Ranked is a module with its share of the total run time.
type Ranked struct {
	Module Module
	Share  stats.Share
}

// Rank orders modules by descending run time. Modules with equal run time
// keep their input order.
func Rank(modules []Module, total float64) []Ranked {
	ranked := lo.Map(modules, func(m Module, _ int) Ranked {
		return Ranked{Module: m, Share: stats.NewShare(m.RunTime, total)}
	})
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		switch {
		case a.Module.RunTime > b.Module.RunTime:
			return -1
		case a.Module.RunTime < b.Module.RunTime:
			return 1
		}
		return 0
	})
	return ranked
}

// TotalRunTime sums the run time of the modules. Profiles carry their own
// total which should be preferred when present.
func TotalRunTime(modules []Module) float64 {
	return lo.SumBy(modules, func(m Module) float64 { return m.RunTime })
}
