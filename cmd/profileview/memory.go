package main

import (
	"context"
	"fmt"
	"image/color"
	"strconv"

	"github.com/dustin/go-humanize"
	fcolor "github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/profileview/pkg/memchart"
	"github.com/grafana/profileview/pkg/render"
	"github.com/grafana/profileview/pkg/viewer"
	"github.com/grafana/profileview/pkg/zoom"
)

type memoryParams struct {
	path   string
	scale  float64
	anchor float64
	pan    float64
	at     float64
	plot   string
}

func addMemoryParams(cmd *kingpin.CmdClause, o *overrides) *memoryParams {
	params := &memoryParams{}
	cmd.Arg("file", "Memory profile or bundle.").Required().StringVar(&params.path)
	cmd.Flag("scale", "Horizontal zoom factor.").Default("1").Float64Var(&params.scale)
	cmd.Flag("anchor", "Pixel that stays in place while zooming.").Default("0").Float64Var(&params.anchor)
	cmd.Flag("pan", "Pixels to pan by after zooming.").Default("0").Float64Var(&params.pan)
	cmd.Flag("at", "Show the event under this pixel.").Default("-1").Float64Var(&params.at)
	cmd.Flag("plot", "Write the visible part of the chart to this image file (png, svg or pdf).").StringVar(&params.plot)
	o.float64(cmd.Flag("width", "Chart width in pixels."), func(c *viewer.Config) *float64 { return &c.Viewport.Width })
	o.float64(cmd.Flag("height", "Chart height in pixels."), func(c *viewer.Config) *float64 { return &c.Viewport.Height })
	return params
}

func memoryChart(ctx context.Context, r *viewer.Registry, c viewer.Config, params *memoryParams) error {
	p, err := getProfile(ctx, r, params.path)
	if err != nil {
		return err
	}
	if p.Memory == nil {
		return fmt.Errorf("%s is a %s profile, not a memory profile", params.path, p.Format)
	}
	out := output(ctx)
	if len(p.Memory.Events) == 0 {
		fmt.Fprintln(out, fcolor.YellowString(render.NoDataMessage))
		return nil
	}

	chart := p.MemoryChart(zoom.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height})
	if params.scale != 1 {
		chart.Zoom(params.scale, params.anchor)
	}
	if params.pan != 0 {
		chart.Pan(params.pan)
	}
	visible, err := chart.VisibleX()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s  %s lines executed  visible %s  scale %s\n",
		fcolor.New(fcolor.Bold).Sprint(p.Memory.ObjectName),
		humanize.Comma(int64(p.Memory.TotalEvents)),
		visible,
		render.FormatNumber(chart.Transform().K),
	)
	if params.at >= 0 {
		if e, ok := chart.Closest(params.at); ok {
			fmt.Fprintf(out, "line %d of %s in %s: %s MB\n", e.Line, e.File, e.Function, render.FormatNumber(e.MemoryMB))
		}
	}

	if objects := chart.Objects(); len(objects) > 0 {
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Object", "Count"})
		for _, obj := range objects {
			table.Append([]string{obj.Name, strconv.FormatInt(obj.Count, 10)})
		}
		table.Render()
	}

	if params.plot == "" {
		return nil
	}
	return savePlot(chart, visible, c.Viewport, p.Memory.ObjectName, params.plot)
}

func savePlot(chart *memchart.Chart, visible zoom.Domain, vp viewer.ViewportConfig, title, path string) error {
	points := make(plotter.XYs, 0, len(chart.Events()))
	for _, e := range chart.Events() {
		points = append(points, plotter.XY{X: float64(e.Index), Y: e.MemoryMB})
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	line.Width = vg.Points(1)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Executed lines"
	p.Y.Label.Text = "Memory usage (MB)"
	p.X.Min, p.X.Max = visible.Lo, visible.Hi
	p.Y.Min, p.Y.Max = chart.Y().Lo, chart.Y().Hi
	if ticks := chart.TickValues(); ticks != nil {
		marks := make([]plot.Tick, len(ticks))
		for i, t := range ticks {
			marks[i] = plot.Tick{Value: float64(t), Label: strconv.Itoa(t)}
		}
		p.X.Tick.Marker = plot.ConstantTicks(marks)
	}

	grid := plotter.NewGrid()
	grid.Horizontal.Color = color.Gray{Y: 210}
	grid.Vertical.Width = 0
	p.Add(grid, line)

	return p.Save(vg.Length(vp.Width)*vg.Millimeter/4, vg.Length(vp.Height)*vg.Millimeter/4, path)
}
