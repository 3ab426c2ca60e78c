package viewer

import (
	"flag"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/grafana/profileview/pkg/render"
	"github.com/grafana/profileview/pkg/zoom"
)

type Config struct {
	Cutoff         float64        `yaml:"cutoff"`
	CharWidth      float64        `yaml:"char_width"`
	MinLabelHeight float64        `yaml:"min_label_height"`
	YPin           string         `yaml:"y_pin"`
	SampleType     string         `yaml:"sample_type"`
	CacheSize      int            `yaml:"cache_size"`
	Viewport       ViewportConfig `yaml:"viewport"`
}

type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// RegisterFlags registers viewer flags.
func (cfg *Config) RegisterFlags(f *flag.FlagSet) {
	f.Float64Var(&cfg.Cutoff, "viewer.cutoff", 0.001, "Nodes whose share of the total weight is below this fraction are pruned with their subtrees.")
	f.Float64Var(&cfg.CharWidth, "viewer.char-width", render.DefaultCharWidth, "Assumed width of a label character in pixels.")
	f.Float64Var(&cfg.MinLabelHeight, "viewer.min-label-height", 18, "Labels are hidden in rectangles not taller than this many pixels.")
	f.StringVar(&cfg.YPin, "viewer.y-pin", zoom.PinDeepestLeaf.String(), "Bottom of the zoomed y domain: deepest-leaf or own-band.")
	f.StringVar(&cfg.SampleType, "viewer.sample-type", "", "pprof sample type to show. The last sample type is used when empty.")
	f.IntVar(&cfg.CacheSize, "viewer.cache-size", 16, "Number of prepared profiles kept in memory.")
	cfg.Viewport.RegisterFlags(f)
}

func (cfg *ViewportConfig) RegisterFlags(f *flag.FlagSet) {
	f.Float64Var(&cfg.Width, "viewer.width", 1200, "Viewport width in pixels.")
	f.Float64Var(&cfg.Height, "viewer.height", 600, "Viewport height in pixels.")
}

// Validate reports every invalid setting at once.
func (cfg *Config) Validate() error {
	var err error
	if cfg.Cutoff < 0 || cfg.Cutoff > 1 {
		err = multierror.Append(err, errors.Errorf("cutoff %g is not a fraction", cfg.Cutoff))
	}
	if cfg.CharWidth <= 0 {
		err = multierror.Append(err, errors.New("char width must be positive"))
	}
	if cfg.CacheSize <= 0 {
		err = multierror.Append(err, errors.New("cache size must be positive"))
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		err = multierror.Append(err, errors.Errorf("invalid viewport %gx%g", cfg.Viewport.Width, cfg.Viewport.Height))
	}
	if _, pinErr := zoom.ParseYPin(cfg.YPin); pinErr != nil {
		err = multierror.Append(err, pinErr)
	}
	return err
}

func (cfg *Config) renderOptions() render.Options {
	return render.Options{CharWidth: cfg.CharWidth, MinLabelHeight: cfg.MinLabelHeight}
}

func (cfg *Config) viewport() zoom.Viewport {
	return zoom.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
}
