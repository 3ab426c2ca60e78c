package render

import (
	"strconv"
	"strings"

	"github.com/grafana/profileview/pkg/model"
	"github.com/grafana/profileview/pkg/stats"
)

// NoDataMessage is shown instead of a flame graph when nothing was sampled.
const NoDataMessage = "Sorry, no samples. Seems like run time is less than sampling interval."

var htmlAngles = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// FormatNumber prints a number the way the drawing layer expects it,
// without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Tooltip describes a node and its share of the total weight.
func Tooltip(n *model.Node, total float64) string {
	var b strings.Builder
	field(&b, "Function name", htmlAngles.Replace(n.Identity.Function))
	field(&b, "Line number", strconv.Itoa(n.Identity.Line))
	field(&b, "Filename", n.Identity.File)
	field(&b, "Sample count", FormatNumber(n.Weight))
	field(&b, "Percentage", FormatNumber(stats.PercentageOf(n.Weight, total))+"%")
	return b.String()
}

// Summary is the profile-level information shown in the legend.
type Summary struct {
	ObjectName     string
	RunTime        float64
	TotalSamples   float64
	SampleInterval float64
}

func Legend(s Summary) string {
	var b strings.Builder
	field(&b, "Object name", s.ObjectName)
	field(&b, "Run time", FormatNumber(s.RunTime)+" s")
	field(&b, "Total samples", FormatNumber(s.TotalSamples))
	field(&b, "Sample interval", FormatNumber(s.SampleInterval)+" s")
	return b.String()
}

func field(b *strings.Builder, name, value string) {
	b.WriteString("<p><b>")
	b.WriteString(name)
	b.WriteString(":</b> ")
	b.WriteString(value)
	b.WriteString("</p>")
}
