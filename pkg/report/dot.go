package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pylon/pkg/assembly"
	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/pipeline"
)

var slotNames = map[int]string{
	assembly.SlotTop:        "RNA",
	assembly.SlotTransition: "transition piece",
	assembly.SlotFoundation: "gravity foundation",
}

// StructureDOT describes the assembled structure of one load case as a
// Graphviz graph: the node chain bottom up, with supports, point masses and
// point loads hanging off their nodes. Zero masses are left out.
func StructureDOT(res *pipeline.Result, caseIndex int) (string, error) {
	if caseIndex < 0 || caseIndex >= len(res.Cases) {
		return "", errors.New(errors.ErrCodeNotFound, "load case %d does not exist", caseIndex)
	}
	c := res.Cases[caseIndex]
	m := res.Mesh

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", c.Name)
	b.WriteString("  rankdir=BT;\n  node [shape=circle, fontsize=9, width=0.3];\n")

	for i, z := range m.Z {
		fmt.Fprintf(&b, "  n%d [label=\"%d\\nz=%.2f\"];\n", i, i, z)
	}
	for i := range m.Elements() {
		fmt.Fprintf(&b, "  n%d -> n%d [arrowhead=none, penwidth=2, label=\"D=%.2f t=%.3f\", fontsize=8];\n",
			i, i+1, m.ElementDiameter(i), m.Thickness[i])
	}

	for k, s := range c.Assembly.Supports {
		fmt.Fprintf(&b, "  s%d [shape=invtriangle, style=filled, fillcolor=\"#d9c8a9\", label=\"kx=%.3g\\nkθx=%.3g\"];\n", k, s.K.X, s.K.TX)
		fmt.Fprintf(&b, "  s%d -> n%d [style=dashed, arrowhead=none];\n", k, s.Node)
	}
	for k, pm := range c.Assembly.Masses {
		if pm.Mass == 0 {
			continue
		}
		fmt.Fprintf(&b, "  m%d [shape=box, style=filled, fillcolor=\"#a9c8d9\", label=\"%s\\n%.0f kg\"];\n", k, slotNames[k], pm.Mass)
		fmt.Fprintf(&b, "  n%d -> m%d [arrowhead=dot];\n", pm.Node, k)
	}
	for k, l := range c.Assembly.Loads {
		fmt.Fprintf(&b, "  l%d [shape=plaintext, label=\"F=(%.3g, %.3g, %.3g)\\nM=(%.3g, %.3g, %.3g)\"];\n",
			k, l.Force[0], l.Force[1], l.Force[2], l.Moment[0], l.Moment[1], l.Moment[2])
		fmt.Fprintf(&b, "  l%d -> n%d [color=red];\n", k, l.Node)
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// RenderSVG renders a DOT graph to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
