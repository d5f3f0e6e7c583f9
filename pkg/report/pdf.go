package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/matzehuels/pylon/pkg/pipeline"
)

// PDFOptions annotate the printed report.
type PDFOptions struct {
	Title   string
	Project string
	Author  string
	// Date defaults to today.
	Date time.Time
}

// WritePDF writes a one to two page summary of res.
func WritePDF(res *pipeline.Result, w io.Writer, opts PDFOptions) error {
	if opts.Title == "" {
		opts.Title = "Tower structural analysis"
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, opts.Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	if res.Name != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Design: %s", res.Name))
		pdf.Ln(6)
	}
	if opts.Project != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Project: %s", opts.Project))
		pdf.Ln(6)
	}
	if opts.Author != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Author: %s", opts.Author))
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", opts.Date.Format("2006-01-02")))
	pdf.Ln(10)

	s := res.Summary()
	section(pdf, "Mass and geometry")
	table(pdf, [][2]string{
		{"Tower mass", fmt.Sprintf("%.0f kg", s.TowerMass)},
		{"Monopile mass", fmt.Sprintf("%.0f kg", s.MonopileMass)},
		{"Monopile length", fmt.Sprintf("%.2f m", res.Mass.MonopileLength)},
		{"Total cost", fmt.Sprintf("%.0f", s.TotalCost)},
		{"Centre of mass", fmt.Sprintf("%.2f m", res.Mass.CenterOfMass)},
		{"Height constraint", fmt.Sprintf("%.2f m", s.HeightConstraint)},
		{"Nodes / elements", fmt.Sprintf("%d / %d", res.Mesh.Nodes(), res.Mesh.Elements())},
	})

	section(pdf, "Response envelope")
	verdict := "compliant"
	if !s.Compliant {
		verdict = "NOT compliant"
	}
	if res.Aggregate == nil {
		verdict = fmt.Sprintf("incomplete (%d of %d load cases failed)", s.Failed, s.Cases)
	}
	table(pdf, [][2]string{
		{"Load cases", fmt.Sprintf("%d", s.Cases)},
		{"First natural frequency", fmt.Sprintf("%.4f Hz", s.Frequency)},
		{"Top deflection", fmt.Sprintf("%.4f m", s.TopDeflection)},
		{"Max stress margin", fmt.Sprintf("%.3f", s.MaxStress)},
		{"Max global buckling margin", fmt.Sprintf("%.3f", s.MaxGlobalBuckling)},
		{"Max shell buckling margin", fmt.Sprintf("%.3f", s.MaxShellBuckling)},
		{"Verdict", verdict},
	})

	if a := res.Aggregate; a != nil {
		section(pdf, "Governing margins per element")
		pdf.SetFont("Helvetica", "B", 9)
		for _, h := range []string{"Element", "z [m]", "Stress", "Case", "Global", "Case", "Shell", "Case"} {
			pdf.CellFormat(22, 6, h, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		for i := range a.Stress {
			cells := []string{
				fmt.Sprintf("%d", i),
				fmt.Sprintf("%.2f", res.Mesh.ElementMidpoint(i)),
				fmt.Sprintf("%.3f", a.Stress[i]),
				res.Cases[a.Governing.Stress[i]].Name,
				fmt.Sprintf("%.3f", a.GlobalBuckling[i]),
				res.Cases[a.Governing.GlobalBuckling[i]].Name,
				fmt.Sprintf("%.3f", a.ShellBuckling[i]),
				res.Cases[a.Governing.ShellBuckling[i]].Name,
			}
			for _, c := range cells {
				pdf.CellFormat(22, 5, c, "1", 0, "R", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	for _, c := range res.Cases {
		if c.Error != "" {
			pdf.SetTextColor(180, 0, 0)
			pdf.MultiCell(0, 5, fmt.Sprintf("Load case %s failed: %s", c.Name, c.Error), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
}

func table(pdf *gofpdf.Fpdf, rows [][2]string) {
	for _, r := range rows {
		pdf.CellFormat(70, 6, r[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, r[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}
