package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/profileview/pkg/render"
	"github.com/grafana/profileview/pkg/stats"
	"github.com/grafana/profileview/pkg/viewer"
)

type flameGraphParams struct {
	path   string
	zoom   int
	output string
}

func addFlameGraphParams(cmd *kingpin.CmdClause, o *overrides) *flameGraphParams {
	params := &flameGraphParams{}
	cmd.Arg("file", "Profile to show: a flame graph document, pprof or collapsed stacks.").Required().StringVar(&params.path)
	cmd.Flag("zoom", "Node id to zoom into.").Default("-1").IntVar(&params.zoom)
	cmd.Flag("output", "Output format: table, tree or json. Defaults to table on a terminal and json otherwise.").EnumVar(&params.output, "table", "tree", "json")
	o.float64(cmd.Flag("cutoff", "Prune nodes below this fraction of the total weight."), func(c *viewer.Config) *float64 { return &c.Cutoff })
	o.float64(cmd.Flag("width", "Viewport width in pixels."), func(c *viewer.Config) *float64 { return &c.Viewport.Width })
	o.float64(cmd.Flag("height", "Viewport height in pixels."), func(c *viewer.Config) *float64 { return &c.Viewport.Height })
	o.string(cmd.Flag("y-pin", "Bottom of the zoomed view: deepest-leaf or own-band."), func(c *viewer.Config) *string { return &c.YPin })
	o.string(cmd.Flag("sample-type", "pprof sample type to show."), func(c *viewer.Config) *string { return &c.SampleType })
	return params
}

func flameGraph(ctx context.Context, r *viewer.Registry, c viewer.Config, params *flameGraphParams) error {
	p, err := getProfile(ctx, r, params.path)
	if err != nil {
		return err
	}
	if p.FlameGraph == nil {
		return fmt.Errorf("%s is a %s profile, not a flame graph", params.path, p.Format)
	}
	v, err := viewer.NewView(p.FlameGraph, c)
	if err != nil {
		return err
	}
	out := output(ctx)
	if v.NoData() {
		fmt.Fprintln(out, color.YellowString(render.NoDataMessage))
		return nil
	}
	if params.zoom >= 0 {
		if err := v.ZoomIn(params.zoom); err != nil {
			return err
		}
	}

	format := params.output
	if format == "" {
		format = "json"
		if isatty.IsTerminal(os.Stdout.Fd()) {
			format = "table"
		}
	}
	switch format {
	case "tree":
		_, err = fmt.Fprintln(out, v.FlameGraph().Tree.String())
		return err
	case "json":
		recs, err := v.Records()
		if err != nil {
			return err
		}
		return outputRecords(out, recs)
	}

	recs, err := v.Records()
	if err != nil {
		return err
	}
	s := v.FlameGraph().Summary
	fmt.Fprintf(out, "%s  run time %ss  samples %s  interval %ss  window x=%s y=%s\n",
		color.New(color.Bold).Sprint(s.ObjectName),
		render.FormatNumber(s.RunTime),
		humanize.Commaf(s.TotalSamples),
		render.FormatNumber(s.SampleInterval),
		v.Window().X(), v.Window().Y(),
	)
	total := v.FlameGraph().Tree.TotalWeight()
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"ID", "Depth", "X0", "X1", "Y0", "Y1", "Weight", "%", "Label"})
	for _, rec := range recs {
		table.Append([]string{
			strconv.Itoa(rec.Node.ID),
			strconv.Itoa(rec.Depth),
			fmt.Sprintf("%.1f", rec.X0),
			fmt.Sprintf("%.1f", rec.X1),
			fmt.Sprintf("%.1f", rec.Y0),
			fmt.Sprintf("%.1f", rec.Y1),
			humanize.Commaf(rec.Node.Weight),
			render.FormatNumber(stats.PercentageOf(rec.Node.Weight, total)),
			paintLabel(rec),
		})
	}
	table.Render()
	return nil
}

type recordJSON struct {
	ID           int     `json:"id"`
	Depth        int     `json:"depth"`
	X0           float64 `json:"x0"`
	Y0           float64 `json:"y0"`
	X1           float64 `json:"x1"`
	Y1           float64 `json:"y1"`
	Label        string  `json:"label"`
	LabelVisible bool    `json:"labelVisible"`
	ColorKey     uint32  `json:"colorKey"`
	Function     string  `json:"function"`
	File         string  `json:"file"`
	Line         int     `json:"line"`
	Weight       float64 `json:"weight"`
}

func outputRecords(w io.Writer, recs []render.Record) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	for _, rec := range recs {
		if err := enc.Encode(recordJSON{
			ID:           rec.Node.ID,
			Depth:        rec.Depth,
			X0:           rec.X0,
			Y0:           rec.Y0,
			X1:           rec.X1,
			Y1:           rec.Y1,
			Label:        rec.Label,
			LabelVisible: rec.LabelVisible,
			ColorKey:     uint32(rec.ColorKey),
			Function:     rec.Node.Identity.Function,
			File:         rec.Node.Identity.File,
			Line:         rec.Node.Identity.Line,
			Weight:       rec.Node.Weight,
		}); err != nil {
			return err
		}
	}
	return nil
}
