package viewer

import (
	"bytes"
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/afero"

	"github.com/grafana/profileview/pkg/heatmap"
	"github.com/grafana/profileview/pkg/ingest"
	"github.com/grafana/profileview/pkg/memchart"
	"github.com/grafana/profileview/pkg/model"
	"github.com/grafana/profileview/pkg/util"
	"github.com/grafana/profileview/pkg/zoom"
)

// Profile is everything decoded from a single file. A bundle may fill
// several fields, every other format fills one.
type Profile struct {
	Path       string
	Format     ingest.Format
	FlameGraph *FlameGraph
	Heatmap    *ingest.HeatmapProfile
	Memory     *ingest.MemoryProfile
}

// Listings aggregates every module of the heatmap, ordered by run time.
func (p *Profile) Listings() []heatmap.Listing {
	if p.Heatmap == nil {
		return nil
	}
	ranked := heatmap.Rank(p.Heatmap.Modules, p.Heatmap.RunTime)
	return lo.Map(ranked, func(r heatmap.Ranked, _ int) heatmap.Listing {
		return heatmap.Aggregate(r.Module)
	})
}

// MemoryChart returns a new chart over the memory events. Charts carry
// their own zoom state, so each caller gets a fresh one.
func (p *Profile) MemoryChart(vp zoom.Viewport) *memchart.Chart {
	if p.Memory == nil {
		return nil
	}
	return memchart.New(p.Memory.Events, p.Memory.Objects, vp)
}

// Loader reads profiles from a filesystem and prepares them for display.
type Loader struct {
	fs      afero.Fs
	cfg     Config
	logger  log.Logger
	metrics *metrics
}

func NewLoader(fs afero.Fs, cfg Config, logger log.Logger, reg prometheus.Registerer) *Loader {
	return &Loader{
		fs:      fs,
		cfg:     cfg,
		logger:  logger,
		metrics: newMetrics(reg),
	}
}

func (l *Loader) Load(ctx context.Context, path string) (*Profile, error) {
	logger := util.LoggerWithProfile(path, l.logger)
	start := time.Now()

	p, err := l.load(ctx, path)
	if err != nil {
		if model.IsMalformedProfileError(err) {
			l.metrics.ingestFailures.Inc()
		}
		level.Warn(logger).Log("msg", "failed to load profile", "err", err)
		return nil, errors.Wrapf(err, "load %s", path)
	}

	l.metrics.profilesLoaded.WithLabelValues(p.Format.String()).Inc()
	l.metrics.loadDuration.Observe(time.Since(start).Seconds())
	kv := []any{"msg", "profile loaded", "format", p.Format, "duration", time.Since(start)}
	if p.FlameGraph != nil {
		l.metrics.layoutNodes.Observe(float64(p.FlameGraph.Tree.Len()))
		kv = append(kv, "nodes", p.FlameGraph.Tree.Len())
	}
	level.Debug(logger).Log(kv...)
	return p, nil
}

func (l *Loader) load(ctx context.Context, path string) (*Profile, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := ingest.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}

	p := &Profile{Path: path, Format: ingest.Detect(path, data)}
	r := bytes.NewReader(data)
	switch p.Format {
	case ingest.FormatFlameGraph:
		var fg *ingest.FlameGraphProfile
		if fg, err = ingest.DecodeFlameGraph(r); err == nil {
			p.FlameGraph = NewFlameGraph(fg, l.cfg.Cutoff)
		}
	case ingest.FormatPprof:
		var fg *ingest.FlameGraphProfile
		if fg, err = ingest.DecodePprof(r, path, l.cfg.SampleType); err == nil {
			p.FlameGraph = NewFlameGraph(fg, l.cfg.Cutoff)
		}
	case ingest.FormatCollapsed:
		var fg *ingest.FlameGraphProfile
		if fg, err = ingest.DecodeCollapsedProfile(r, path); err == nil {
			p.FlameGraph = NewFlameGraph(fg, l.cfg.Cutoff)
		}
	case ingest.FormatHeatmap:
		p.Heatmap, err = ingest.DecodeHeatmap(r)
	case ingest.FormatMemory:
		p.Memory, err = ingest.DecodeMemory(r)
	case ingest.FormatBundle:
		var b *ingest.Bundle
		if b, err = ingest.DecodeBundle(r); err == nil {
			p.Heatmap, p.Memory = b.Heatmap, b.Memory
			if b.FlameGraph != nil {
				p.FlameGraph = NewFlameGraph(b.FlameGraph, l.cfg.Cutoff)
			}
		}
	default:
		err = &model.MalformedProfileError{Err: errors.New("unrecognized profile format")}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
