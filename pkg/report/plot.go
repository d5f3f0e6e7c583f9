package report

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/pylon/pkg/pipeline"
)

// Plot sizes.
var (
	PlotWidth  = 6 * vg.Inch
	PlotHeight = 8 * vg.Inch
)

// WritePlot draws the governing margin of every element against its
// elevation, one line per load case plus the envelope, and writes it in
// format ("png", "svg" or "pdf").
func WritePlot(res *pipeline.Result, w io.Writer, format string) error {
	p := plot.New()
	p.Title.Text = "Margins"
	if res.Name != "" {
		p.Title.Text = fmt.Sprintf("Margins: %s", res.Name)
	}
	p.X.Label.Text = "Governing margin (< 1 compliant)"
	p.Y.Label.Text = "Elevation (m)"
	p.Add(plotter.NewGrid())

	m := res.Mesh
	for k, c := range res.Cases {
		if c.Margins == nil {
			continue
		}
		pts := make(plotter.XYs, m.Elements())
		for i := range pts {
			pts[i] = plotter.XY{
				X: max(c.Margins.Stress[i], c.Margins.GlobalBuckling[i], c.Margins.ShellBuckling[i]),
				Y: m.ElementMidpoint(i),
			}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = plotutil.Color(k)
		p.Add(line)
		p.Legend.Add(c.Name, line)
	}

	if a := res.Aggregate; a != nil {
		pts := make(plotter.XYs, m.Elements())
		for i := range pts {
			pts[i] = plotter.XY{X: max(a.Stress[i], a.GlobalBuckling[i], a.ShellBuckling[i]), Y: m.ElementMidpoint(i)}
		}
		env, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		env.LineStyle.Width = vg.Points(2)
		env.LineStyle.Color = color.Black
		env.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(env)
		p.Legend.Add("envelope", env)
	}

	if m.Nodes() > 0 {
		limit, err := plotter.NewLine(plotter.XYs{{X: 1, Y: m.Z[0]}, {X: 1, Y: m.Top()}})
		if err != nil {
			return err
		}
		limit.LineStyle.Color = color.RGBA{R: 200, A: 255}
		p.Add(limit)
	}
	p.X.Min = 0
	p.X.Max = math.Max(1.1, p.X.Max)
	p.Legend.Top = true

	wt, err := p.WriterTo(PlotWidth, PlotHeight, format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
