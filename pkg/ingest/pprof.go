package ingest

import (
	"fmt"
	"io"
	"time"

	"github.com/google/pprof/profile"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/grafana/profileview/pkg/model"
)

// FromPprof converts the samples of a pprof profile into stack samples.
// sampleType selects the value to use; empty means the last one, which is
// what pprof itself shows by default.
func FromPprof(p *profile.Profile, sampleType string) ([]model.StackSample, error) {
	if len(p.SampleType) == 0 {
		return nil, nil
	}
	idx := len(p.SampleType) - 1
	if sampleType != "" {
		var ok bool
		if _, idx, ok = lo.FindIndexOf(p.SampleType, func(t *profile.ValueType) bool {
			return t.Type == sampleType
		}); !ok {
			return nil, errors.Errorf("sample type %q not found, have %v", sampleType,
				lo.Map(p.SampleType, func(t *profile.ValueType, _ int) string { return t.Type }))
		}
	}

	samples := make([]model.StackSample, 0, len(p.Sample))
	for _, s := range p.Sample {
		if idx >= len(s.Value) || s.Value[idx] <= 0 {
			continue
		}
		samples = append(samples, model.StackSample{
			Frames: frames(s.Location),
			Count:  float64(s.Value[idx]),
		})
	}
	return samples, nil
}

// frames flattens locations, which pprof stores leaf first, into frames
// ordered root first. Inlined functions of a location are expanded.
func frames(locs []*profile.Location) []model.Identity {
	res := make([]model.Identity, 0, len(locs))
	for i := len(locs) - 1; i >= 0; i-- {
		loc := locs[i]
		if len(loc.Line) == 0 {
			res = append(res, model.Identity{Function: fmt.Sprintf("0x%x", loc.Address)})
			continue
		}
		for j := len(loc.Line) - 1; j >= 0; j-- {
			l := loc.Line[j]
			id := model.Identity{Line: int(l.Line)}
			if l.Function != nil {
				id.Function = l.Function.Name
				id.File = l.Function.Filename
			}
			res = append(res, id)
		}
	}
	return res
}

// DecodePprof parses a pprof profile, compressed or not, and folds it into
// a flame graph.
func DecodePprof(r io.Reader, name, sampleType string) (*FlameGraphProfile, error) {
	p, err := profile.Parse(r)
	if err != nil {
		return nil, &model.MalformedProfileError{Err: errors.Wrap(err, "parse pprof")}
	}
	samples, err := FromPprof(p, sampleType)
	if err != nil {
		return nil, err
	}
	t := model.FoldStacks(samples)
	fg := &FlameGraphProfile{
		ObjectName:   name,
		RunTime:      time.Duration(p.DurationNanos).Seconds(),
		TotalSamples: t.TotalWeight(),
		Tree:         t,
	}
	if p.PeriodType != nil && p.PeriodType.Unit == "nanoseconds" {
		fg.SampleInterval = time.Duration(p.Period).Seconds()
	}
	return fg, nil
}
