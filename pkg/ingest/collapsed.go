package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/grafana/profileview/pkg/model"
)

// DecodeCollapsed reads stacks in the collapsed format, one sample per line:
//
//	main;handle;parse 12
func DecodeCollapsed(r io.Reader) ([]model.StackSample, error) {
	r, err := Open(r)
	if err != nil {
		return nil, err
	}
	var (
		samples []model.StackSample
		lineNo  int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), 16<<20)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		path := fmt.Sprintf("line %d", lineNo)
		idx := strings.LastIndexByte(line, ' ')
		if idx == -1 {
			return nil, malformed(path, "no sample count")
		}
		count, err := strconv.ParseInt(line[idx+1:], 0, 64)
		if err != nil {
			return nil, &model.MalformedProfileError{Path: path, Err: err}
		}
		if count < 0 {
			return nil, malformed(path, "negative sample count %d", count)
		}
		samples = append(samples, model.StackSample{
			Frames: lo.Map(strings.Split(line[:idx], ";"), func(f string, _ int) model.Identity {
				return model.Identity{Function: f}
			}),
			Count: float64(count),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read collapsed stacks")
	}
	return samples, nil
}

// EncodeCollapsed writes samples in the collapsed format. Frames are
// written by function name only.
func EncodeCollapsed(w io.Writer, samples []model.StackSample) error {
	for _, s := range samples {
		stack := strings.Join(lo.Map(s.Frames, func(f model.Identity, _ int) string { return f.Function }), ";")
		if _, err := fmt.Fprintf(w, "%s %d\n", stack, int64(s.Count)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeCollapsedProfile folds collapsed stacks into a flame graph.
func DecodeCollapsedProfile(r io.Reader, name string) (*FlameGraphProfile, error) {
	samples, err := DecodeCollapsed(r)
	if err != nil {
		return nil, err
	}
	t := model.FoldStacks(samples)
	return &FlameGraphProfile{ObjectName: name, TotalSamples: t.TotalWeight(), Tree: t}, nil
}
