package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/matzehuels/pylon/pkg/pipeline"
)

// Chart renders the governing envelope margin from the base (left) to the
// top (right) as a text chart. It returns "" when there is no envelope.
func Chart(res *pipeline.Result, width, height int) string {
	a := res.Aggregate
	if a == nil || len(a.Stress) == 0 {
		return ""
	}
	series := make([]float64, len(a.Stress))
	for i := range series {
		series[i] = max(a.Stress[i], a.GlobalBuckling[i], a.ShellBuckling[i])
	}
	return asciigraph.Plot(series,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("governing margin, elements %d (base) to %d (top)", 0, len(series)-1)))
}
