package ingest

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/grafana/profileview/pkg/heatmap"
	"github.com/grafana/profileview/pkg/memchart"
	"github.com/grafana/profileview/pkg/model"
)

// FlameGraphProfile is a sampled call tree with its run metadata.
type FlameGraphProfile struct {
	ObjectName     string
	RunTime        float64
	TotalSamples   float64
	SampleInterval float64
	Tree           *model.Tree
}

type flameGraphDoc struct {
	ObjectName     string  `json:"objectName"`
	RunTime        float64 `json:"runTime"`
	TotalSamples   float64 `json:"totalSamples"`
	SampleInterval float64 `json:"sampleInterval"`
	CallStats      any     `json:"callStats"`
}

func DecodeFlameGraph(r io.Reader) (*FlameGraphProfile, error) {
	var doc flameGraphDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	return doc.profile()
}

func (doc *flameGraphDoc) profile() (*FlameGraphProfile, error) {
	t, err := model.BuildTree(doc.CallStats)
	if err != nil {
		return nil, errors.Wrap(err, "call stats")
	}
	return &FlameGraphProfile{
		ObjectName:     doc.ObjectName,
		RunTime:        doc.RunTime,
		TotalSamples:   doc.TotalSamples,
		SampleInterval: doc.SampleInterval,
		Tree:           t,
	}, nil
}

type HeatmapProfile struct {
	ObjectName string
	RunTime    float64
	Modules    []heatmap.Module
}

type heatmapDoc struct {
	ObjectName string          `json:"objectName"`
	RunTime    float64         `json:"runTime"`
	Heatmaps   []heatmapModule `json:"heatmaps"`
}

type heatmapModule struct {
	Name           string          `json:"name"`
	RunTime        float64         `json:"runTime"`
	Heatmap        map[int]float64 `json:"heatmap"`
	ExecutionCount map[int]int64   `json:"executionCount"`
	SrcCode        [][]any         `json:"srcCode"`
}

func DecodeHeatmap(r io.Reader) (*HeatmapProfile, error) {
	var doc heatmapDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	return doc.profile()
}

func (doc *heatmapDoc) profile() (*HeatmapProfile, error) {
	p := &HeatmapProfile{
		ObjectName: doc.ObjectName,
		RunTime:    doc.RunTime,
		Modules:    make([]heatmap.Module, 0, len(doc.Heatmaps)),
	}
	for i, m := range doc.Heatmaps {
		src, err := sourceEntries(m.SrcCode, fmt.Sprintf("$.heatmaps[%d].srcCode", i))
		if err != nil {
			return nil, err
		}
		p.Modules = append(p.Modules, heatmap.Module{
			Name:           m.Name,
			RunTime:        m.RunTime,
			Source:         src,
			Heatmap:        m.Heatmap,
			ExecutionCount: m.ExecutionCount,
		})
	}
	return p, nil
}

// sourceEntries validates ["line", n, text] and ["skip", n] tuples.
func sourceEntries(raw [][]any, path string) ([]heatmap.SourceEntry, error) {
	res := make([]heatmap.SourceEntry, 0, len(raw))
	for i, t := range raw {
		p := fmt.Sprintf("%s[%d]", path, i)
		if len(t) == 0 {
			return nil, malformed(p, "empty source entry")
		}
		kind, _ := t[0].(string)
		switch kind {
		case "line":
			if len(t) != 3 {
				return nil, malformed(p, "line entry has %d elements, expected 3", len(t))
			}
			n, ok := number(t[1])
			if !ok {
				return nil, malformed(p+"[1]", "line number is %T, not a number", t[1])
			}
			text, ok := t[2].(string)
			if !ok {
				return nil, malformed(p+"[2]", "source line is %T, not a string", t[2])
			}
			res = append(res, heatmap.SourceEntry{Kind: heatmap.KindLine, Line: int(n), Text: text})
		case "skip":
			if len(t) != 2 {
				return nil, malformed(p, "skip entry has %d elements, expected 2", len(t))
			}
			n, ok := number(t[1])
			if !ok || n < 0 {
				return nil, malformed(p+"[1]", "invalid skip count %v", t[1])
			}
			res = append(res, heatmap.SourceEntry{Kind: heatmap.KindSkip, Count: int(n)})
		default:
			return nil, malformed(p+"[0]", "unknown source entry kind %v", t[0])
		}
	}
	return res, nil
}

type MemoryProfile struct {
	ObjectName  string
	TotalEvents int
	Events      []memchart.Event
	Objects     []memchart.ObjectCount
}

type memoryDoc struct {
	ObjectName   string  `json:"objectName"`
	TotalEvents  int     `json:"totalEvents"`
	CodeEvents   [][]any `json:"codeEvents"`
	ObjectsCount [][]any `json:"objectsCount"`
}

func DecodeMemory(r io.Reader) (*MemoryProfile, error) {
	var doc memoryDoc
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	return doc.profile()
}

func (doc *memoryDoc) profile() (*MemoryProfile, error) {
	p := &MemoryProfile{
		ObjectName:  doc.ObjectName,
		TotalEvents: doc.TotalEvents,
		Events:      make([]memchart.Event, 0, len(doc.CodeEvents)),
	}
	for i, t := range doc.CodeEvents {
		e, err := codeEvent(t, fmt.Sprintf("$.codeEvents[%d]", i))
		if err != nil {
			return nil, err
		}
		p.Events = append(p.Events, e)
	}
	for i, t := range doc.ObjectsCount {
		path := fmt.Sprintf("$.objectsCount[%d]", i)
		if len(t) != 2 {
			return nil, malformed(path, "object count has %d elements, expected 2", len(t))
		}
		name, ok := t[0].(string)
		if !ok {
			return nil, malformed(path+"[0]", "object name is %T, not a string", t[0])
		}
		n, ok := number(t[1])
		if !ok {
			return nil, malformed(path+"[1]", "object count is %T, not a number", t[1])
		}
		p.Objects = append(p.Objects, memchart.ObjectCount{Name: name, Count: int64(n)})
	}
	if p.TotalEvents == 0 {
		p.TotalEvents = len(p.Events)
	}
	return p, nil
}

// codeEvent validates an [index, line, memory, function, file] tuple.
func codeEvent(t []any, path string) (memchart.Event, error) {
	if len(t) != 5 {
		return memchart.Event{}, malformed(path, "code event has %d elements, expected 5", len(t))
	}
	nums := make([]float64, 3)
	for i := range nums {
		v, ok := number(t[i])
		if !ok {
			return memchart.Event{}, malformed(fmt.Sprintf("%s[%d]", path, i), "%T is not a number", t[i])
		}
		nums[i] = v
	}
	strs, ok := lo.FromAnySlice[string](t[3:])
	if !ok {
		return memchart.Event{}, malformed(path, "function and file names must be strings")
	}
	return memchart.Event{
		Index:    int(nums[0]),
		Line:     int(nums[1]),
		MemoryMB: nums[2],
		Function: strs[0],
		File:     strs[1],
	}, nil
}

// Bundle holds the profiles of a single run, keyed by profile type in the
// document.
type Bundle struct {
	FlameGraph *FlameGraphProfile
	Heatmap    *HeatmapProfile
	Memory     *MemoryProfile
}

func DecodeBundle(r io.Reader) (*Bundle, error) {
	var doc map[string]jsoniter.RawMessage
	if err := decode(r, &doc); err != nil {
		return nil, err
	}
	var (
		b   Bundle
		err error
	)
	for key, data := range doc {
		switch key {
		case bundleFlameGraph:
			var fg flameGraphDoc
			if err = unmarshal(data, &fg); err == nil {
				b.FlameGraph, err = fg.profile()
			}
		case bundleHeatmap:
			var hm heatmapDoc
			if err = unmarshal(data, &hm); err == nil {
				b.Heatmap, err = hm.profile()
			}
		case bundleMemory:
			var m memoryDoc
			if err = unmarshal(data, &m); err == nil {
				b.Memory, err = m.profile()
			}
		}
		if err != nil {
			return nil, errors.Wrapf(err, "bundle entry %q", key)
		}
	}
	return &b, nil
}

func decode(r io.Reader, v any) error {
	r, err := Open(r)
	if err != nil {
		return err
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return &model.MalformedProfileError{Err: errors.Wrap(err, "decode json")}
	}
	return nil
}

func unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &model.MalformedProfileError{Err: errors.Wrap(err, "decode json")}
	}
	return nil
}
