package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	// StyleFailure for exceeded margins and failed cases.
	StyleFailure = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleTableHeader = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(20)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Result Display
// =============================================================================

// printStats prints mesh and cache statistics on a single line.
func printStats(w io.Writer, s pipeline.Stats, cases int) {
	status, style := iconFresh, styleComputed
	if s.CacheHits == cases && cases > 0 {
		status, style = iconCached, styleCached
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf("%d nodes · %d elements · %d/%d cached · ", s.Nodes, s.Elements, s.CacheHits, cases))+style.Render(status))
}

// printSummary prints the headline quantities of a result.
func printSummary(w io.Writer, res *pipeline.Result) {
	s := res.Summary()
	fmt.Fprintln(w, StyleTitle.Render(displayName(res.Name)))
	printKeyValue(w, "Tower mass", fmt.Sprintf("%.0f kg", s.TowerMass))
	if res.Geometry.Embedment > 0 {
		printKeyValue(w, "Monopile mass", fmt.Sprintf("%.0f kg", s.MonopileMass))
		printKeyValue(w, "Monopile length", fmt.Sprintf("%.2f m", res.Mass.MonopileLength))
	}
	printKeyValue(w, "Total cost", fmt.Sprintf("%.0f", s.TotalCost))
	printKeyValue(w, "Height constraint", fmt.Sprintf("%.3f m", s.HeightConstraint))
	printKeyValue(w, "D/t constraint", marginText(peak(res.Constraints.DToT)))
	printKeyValue(w, "Taper constraint", marginText(peak(res.Constraints.Taper)))
	if res.Aggregate != nil {
		printKeyValue(w, "First frequency", fmt.Sprintf("%.4f Hz", s.Frequency))
		printKeyValue(w, "Top deflection", fmt.Sprintf("%.4f m", s.TopDeflection))
	}
}

// casesTable renders one row per load case with its peak margins.
func casesTable(res *pipeline.Result) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("case", "stress", "global buckling", "shell buckling", "deflection [m]", "frequency [Hz]", "status").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		})

	for _, c := range res.Cases {
		if c.Margins == nil {
			t.Row(c.Name, "-", "-", "-", "-", "-", StyleFailure.Render(c.Error))
			continue
		}
		m := c.Margins
		status := StyleSuccess.Render("ok")
		if m.Max() >= 1 {
			status = StyleFailure.Render("exceeded")
		}
		if c.CacheHit {
			status += StyleDim.Render(" (" + iconCached + ")")
		}
		t.Row(c.Name,
			marginText(peak(m.Stress)),
			marginText(peak(m.GlobalBuckling)),
			marginText(peak(m.ShellBuckling)),
			strconv.FormatFloat(m.TopDeflection, 'f', 4, 64),
			strconv.FormatFloat(m.Frequency, 'f', 4, 64),
			status)
	}
	if a := res.Aggregate; a != nil {
		status := StyleSuccess.Render("compliant")
		if !a.Compliant() {
			status = StyleFailure.Render("not compliant")
		}
		t.Row(StyleTitle.Render("envelope"),
			marginText(peak(a.Stress)),
			marginText(peak(a.GlobalBuckling)),
			marginText(peak(a.ShellBuckling)),
			strconv.FormatFloat(a.TopDeflection, 'f', 4, 64),
			strconv.FormatFloat(a.Frequency, 'f', 4, 64),
			status)
	}
	return t.String()
}

// meshTable renders the node table of a mesh.
func meshTable(m geometry.Mesh) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("node", "z [m]", "D [m]", "t [m]", "section").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			return styleTableCell
		})
	for i, z := range m.Z {
		thick, section := "-", "-"
		if i < m.Elements() {
			thick = strconv.FormatFloat(m.Thickness[i], 'f', 4, 64)
			section = strconv.Itoa(m.Section[i])
		}
		t.Row(strconv.Itoa(i),
			strconv.FormatFloat(z, 'f', 3, 64),
			strconv.FormatFloat(m.Diameter[i], 'f', 3, 64),
			thick, section)
	}
	return t.String()
}

func marginText(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	if v >= 1 {
		return StyleFailure.Render(s)
	}
	return StyleNumber.Render(s)
}

func peak(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		m = max(m, x)
	}
	return m
}

func displayName(name string) string {
	if name == "" {
		return "unnamed design"
	}
	return name
}
