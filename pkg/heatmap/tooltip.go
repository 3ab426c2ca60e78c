package heatmap

import (
	"strconv"
	"strings"

	"github.com/grafana/profileview/pkg/stats"
)

// LineTooltip describes the line row with the given index. Lines that never
// ran have no tooltip.
func LineTooltip(l Listing, idx int, total float64) (string, bool) {
	count := l.CountMap[idx]
	if count == 0 {
		return "", false
	}
	t := l.TimeMap[idx]
	var b strings.Builder
	timing(&b, t, total)
	b.WriteString("<p><b>Run count: </b>" + strconv.FormatInt(count, 10) + "</p>")
	return b.String(), true
}

func ModuleTooltip(m Module, total float64) string {
	var b strings.Builder
	timing(&b, m.RunTime, total)
	return b.String()
}

func timing(b *strings.Builder, t, total float64) {
	b.WriteString("<p><b>Time spent: </b>" + seconds(t) + " s</p>")
	b.WriteString("<p><b>Total running time: </b>" + seconds(total) + " s</p>")
	b.WriteString("<p><b>Percentage: </b>" + seconds(stats.PercentageOf(t, total)) + "%</p>")
}

func seconds(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
