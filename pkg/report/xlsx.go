package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/pylon/pkg/pipeline"
)

// Sheet names of the workbook.
const (
	SheetSummary  = "Summary"
	SheetMesh     = "Mesh"
	SheetAssembly = "Assembly"
	SheetMargins  = "Margins"
)

// WriteXLSX writes res as an Excel workbook.
func WriteXLSX(res *pipeline.Result, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	for _, name := range []string{SheetMesh, SheetAssembly, SheetMargins} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	writers := []func(*excelize.File, *pipeline.Result) error{
		summarySheet, meshSheet, assemblySheet, marginSheet,
	}
	for _, fn := range writers {
		if err := fn(f, res); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// rows writes consecutive rows starting at A1.
func rows(f *excelize.File, sheet string, data [][]any) error {
	for i, row := range data {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func summarySheet(f *excelize.File, res *pipeline.Result) error {
	s := res.Summary()
	data := [][]any{
		{"Quantity", "Value", "Unit"},
		{"Name", s.Name, ""},
		{"Tower mass", s.TowerMass, "kg"},
		{"Monopile mass", s.MonopileMass, "kg"},
		{"Monopile length", res.Mass.MonopileLength, "m"},
		{"Total cost", s.TotalCost, ""},
		{"Centre of mass", res.Mass.CenterOfMass, "m"},
		{"Height constraint", s.HeightConstraint, "m"},
		{"First frequency", s.Frequency, "Hz"},
		{"Top deflection", s.TopDeflection, "m"},
		{"Max stress margin", s.MaxStress, ""},
		{"Max global buckling margin", s.MaxGlobalBuckling, ""},
		{"Max shell buckling margin", s.MaxShellBuckling, ""},
		{"Compliant", s.Compliant, ""},
		{"Load cases", s.Cases, ""},
		{"Failed load cases", s.Failed, ""},
	}
	return rows(f, SheetSummary, data)
}

func meshSheet(f *excelize.File, res *pipeline.Result) error {
	m := res.Mesh
	data := [][]any{{"Node", "Elevation", "Diameter", "Thickness", "Section", "Element mass"}}
	for i := range m.Z {
		row := []any{i, m.Z[i], m.Diameter[i]}
		if i < m.Elements() {
			row = append(row, m.Thickness[i], m.Section[i])
			if i < len(res.Properties.Mass) {
				row = append(row, res.Properties.Mass[i])
			}
		}
		data = append(data, row)
	}
	return rows(f, SheetMesh, data)
}

func assemblySheet(f *excelize.File, res *pipeline.Result) error {
	data := [][]any{{"Case", "Kind", "Node", "Values"}}
	for _, c := range res.Cases {
		for _, s := range c.Assembly.Supports {
			k := s.K.Array()
			data = append(data, []any{c.Name, "support", s.Node, fmt.Sprintf("%g", k)})
		}
		for _, m := range c.Assembly.Masses {
			data = append(data, []any{c.Name, "mass", m.Node, fmt.Sprintf("m=%g I=%g offset=%g", m.Mass, m.Inertia, m.Offset)})
		}
		for _, l := range c.Assembly.Loads {
			data = append(data, []any{c.Name, "load", l.Node, fmt.Sprintf("F=%g M=%g", l.Force, l.Moment)})
		}
	}
	return rows(f, SheetAssembly, data)
}

func marginSheet(f *excelize.File, res *pipeline.Result) error {
	header := []any{"Element", "Elevation"}
	for _, c := range res.Cases {
		header = append(header, c.Name+" stress", c.Name+" global", c.Name+" shell")
	}
	if res.Aggregate != nil {
		header = append(header, "envelope stress", "envelope global", "envelope shell")
	}
	data := [][]any{header}
	for i := range res.Mesh.Elements() {
		row := []any{i, res.Mesh.ElementMidpoint(i)}
		for _, c := range res.Cases {
			if c.Margins == nil {
				row = append(row, "", "", "")
				continue
			}
			row = append(row, c.Margins.Stress[i], c.Margins.GlobalBuckling[i], c.Margins.ShellBuckling[i])
		}
		if a := res.Aggregate; a != nil {
			row = append(row, a.Stress[i], a.GlobalBuckling[i], a.ShellBuckling[i])
		}
		data = append(data, row)
	}
	return rows(f, SheetMargins, data)
}
