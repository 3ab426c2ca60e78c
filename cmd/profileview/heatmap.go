package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/grafana/profileview/pkg/heatmap"
	"github.com/grafana/profileview/pkg/render"
	"github.com/grafana/profileview/pkg/viewer"
)

type heatmapParams struct {
	path   string
	module string
	hot    bool
}

func addHeatmapParams(cmd *kingpin.CmdClause) *heatmapParams {
	params := &heatmapParams{}
	cmd.Arg("file", "Code heatmap profile or bundle.").Required().StringVar(&params.path)
	cmd.Flag("module", "Only print listings whose file name contains this string.").StringVar(&params.module)
	cmd.Flag("hot", "Only print lines that took time.").BoolVar(&params.hot)
	return params
}

func heatmapListings(ctx context.Context, r *viewer.Registry, params *heatmapParams) error {
	p, err := getProfile(ctx, r, params.path)
	if err != nil {
		return err
	}
	if p.Heatmap == nil {
		return fmt.Errorf("%s is a %s profile, not a code heatmap", params.path, p.Format)
	}
	out := output(ctx)
	if len(p.Heatmap.Modules) == 0 {
		fmt.Fprintln(out, color.YellowString(render.NoDataMessage))
		return nil
	}

	total := p.Heatmap.RunTime
	if total <= 0 {
		total = heatmap.TotalRunTime(p.Heatmap.Modules)
	}
	fmt.Fprintf(out, "%s  run time %ss\n", color.New(color.Bold).Sprint(p.Heatmap.ObjectName), render.FormatNumber(total))

	modules := tablewriter.NewWriter(out)
	modules.SetHeader([]string{"Module", "Run time (s)", "%"})
	for _, m := range heatmap.Rank(p.Heatmap.Modules, total) {
		modules.Append([]string{
			m.Module.Name,
			render.FormatNumber(m.Module.RunTime),
			render.FormatNumber(m.Share.Percentage),
		})
	}
	modules.Render()

	for _, l := range p.Listings() {
		if params.module != "" && !strings.Contains(l.Module, params.module) {
			continue
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, color.New(color.Bold).Sprint(l.Module))
		printListing(out, l, total, params.hot)
	}
	return nil
}

// printListing colors lines on the scale of the whole profile's run time.
func printListing(out io.Writer, l heatmap.Listing, total float64, hot bool) {
	scale := heatmap.NewScale(total)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Line", "Time (s)", "Runs", "Heat", "Source"})
	table.SetAutoWrapText(false)
	for _, row := range l.Rows {
		if row.Kind == heatmap.KindSkip {
			if !hot {
				table.Append([]string{"", "", "", "", row.String()})
			}
			continue
		}
		if hot && row.Time == 0 {
			continue
		}
		var t, runs, heat string
		if row.Count > 0 {
			t = render.FormatNumber(row.Time)
			runs = strconv.FormatInt(row.Count, 10)
		}
		if v, ok := scale.Intensity(row.Time); ok {
			heat = bar(v)
		}
		table.Append([]string{strconv.Itoa(row.Line), t, runs, heat, row.Text})
	}
	table.Render()
}
