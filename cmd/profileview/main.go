package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/drone/envsubst"
	"github.com/fatih/color"
	"github.com/go-kit/log/level"
	"github.com/grafana/dskit/flagext"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/version"
	"github.com/spf13/afero"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/profileview/pkg/util"
	"github.com/grafana/profileview/pkg/viewer"
)

var cfg struct {
	verbose         bool
	configFile      string
	configExpandEnv bool
	logFormat       string
}

func main() {
	app := kingpin.New(filepath.Base(os.Args[0]), "Flame graphs, code heatmaps and memory charts for profiles, in the terminal.").UsageWriter(os.Stdout)
	app.Version(version.Print("profileview"))
	app.HelpFlag.Short('h')
	app.Flag("verbose", "Enable verbose logging.").Short('v').Default("0").BoolVar(&cfg.verbose)
	app.Flag("config.file", "yaml file with viewer settings.").StringVar(&cfg.configFile)
	app.Flag("config.expand-env", "Expands ${var} in config according to the values of the environment variables.").Default("false").BoolVar(&cfg.configExpandEnv)
	app.Flag("log.format", "Log format: logfmt or json.").Default(util.LogFormatLogfmt).EnumVar(&cfg.logFormat, util.LogFormatLogfmt, util.LogFormatJSON)

	var o overrides
	flameGraphCmd := app.Command("flamegraph", "Lay out a flame graph and print its rectangles.")
	flameGraphParams := addFlameGraphParams(flameGraphCmd, &o)
	heatmapCmd := app.Command("heatmap", "Print the per-line timing of a code heatmap profile.")
	heatmapParams := addHeatmapParams(heatmapCmd)
	memoryCmd := app.Command("memory", "Inspect a memory profile.")
	memoryParams := addMemoryParams(memoryCmd, &o)
	versionCmd := app.Command("version", "Show version information.")

	parsedCmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := util.NewLogger(os.Stderr, cfg.logFormat, cfg.verbose)
	if err != nil {
		os.Exit(checkError(err))
	}
	ctx := util.WithLogger(context.Background(), logger)
	ctx = util.WithRegistry(ctx, prometheus.NewRegistry())
	ctx = withOutput(ctx, os.Stdout)

	if parsedCmd == versionCmd.FullCommand() {
		fmt.Fprintln(output(ctx), version.Print("profileview"))
		return
	}

	viewerCfg, err := loadConfig(cfg.configFile, cfg.configExpandEnv, o)
	if err != nil {
		os.Exit(checkError(err))
	}
	registry, err := newRegistry(ctx, viewerCfg)
	if err != nil {
		os.Exit(checkError(err))
	}

	switch parsedCmd {
	case flameGraphCmd.FullCommand():
		err = flameGraph(ctx, registry, viewerCfg, flameGraphParams)
	case heatmapCmd.FullCommand():
		err = heatmapListings(ctx, registry, heatmapParams)
	case memoryCmd.FullCommand():
		err = memoryChart(ctx, registry, viewerCfg, memoryParams)
	default:
		level.Error(logger).Log("msg", "unknown command", "cmd", parsedCmd)
	}
	logMetrics(ctx)
	if err != nil {
		os.Exit(checkError(err))
	}
}

// overrides collects the viewer settings given on the command line. They
// are applied on top of the defaults and the config file.
type overrides struct {
	fns []func(*viewer.Config)
}

func (o *overrides) float64(clause *kingpin.FlagClause, field func(*viewer.Config) *float64) {
	var v float64
	clause.Action(func(*kingpin.ParseContext) error {
		o.fns = append(o.fns, func(c *viewer.Config) { *field(c) = v })
		return nil
	}).Float64Var(&v)
}

func (o *overrides) string(clause *kingpin.FlagClause, field func(*viewer.Config) *string) {
	var v string
	clause.Action(func(*kingpin.ParseContext) error {
		o.fns = append(o.fns, func(c *viewer.Config) { *field(c) = v })
		return nil
	}).StringVar(&v)
}

func loadConfig(path string, expandEnv bool, o overrides) (viewer.Config, error) {
	var c viewer.Config
	flagext.DefaultValues(&c)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return c, err
		}
		if expandEnv {
			s, err := envsubst.EvalEnv(string(data))
			if err != nil {
				return c, errors.Wrapf(err, "expand env in %s", path)
			}
			data = []byte(s)
		}
		if err := util.LoadYAML(bytes.NewReader(data), &c); err != nil {
			return c, errors.Wrap(err, path)
		}
	}
	for _, fn := range o.fns {
		fn(&c)
	}
	return c, c.Validate()
}

func newRegistry(ctx context.Context, c viewer.Config) (*viewer.Registry, error) {
	loader := viewer.NewLoader(afero.NewOsFs(), c, util.LoggerFromContext(ctx), util.RegistryFromContext(ctx))
	return viewer.NewRegistry(loader, c.CacheSize)
}

// getProfile loads a profile, with a spinner on interactive terminals.
func getProfile(ctx context.Context, r *viewer.Registry, path string) (*viewer.Profile, error) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return r.Get(ctx, path)
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " loading " + path
	s.Start()
	defer s.Stop()
	return r.Get(ctx, path)
}

func logMetrics(ctx context.Context) {
	g, ok := util.RegistryFromContext(ctx).(prometheus.Gatherer)
	if !ok {
		return
	}
	families, err := g.Gather()
	if err != nil {
		return
	}
	logger := util.LoggerFromContext(ctx)
	for _, mf := range families {
		var sum float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				sum += float64(m.GetHistogram().GetSampleCount())
			}
		}
		level.Debug(logger).Log("metric", mf.GetName(), "value", sum)
	}
}

func checkError(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
	return 1
}

type contextKey uint8

const (
	contextKeyOutput contextKey = iota
)

func withOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, contextKeyOutput, w)
}

func output(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(contextKeyOutput).(io.Writer); ok {
		return w
	}
	return os.Stdout
}
