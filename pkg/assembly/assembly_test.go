package assembly

import (
	"math"
	"testing"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/frame"
	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/soil"
)

func monopileMesh(t *testing.T) geometry.Mesh {
	t.Helper()
	adj, err := geometry.AdjustFoundation(geometry.Sections{
		Heights:     []float64{30, 30, 30},
		Diameters:   []float64{6, 6, 6, 6},
		Thicknesses: []float64{0.03, 0.03, 0.03},
	}, geometry.Foundation{Elevation: -30, PileDepth: 15, Monopile: true})
	if err != nil {
		t.Fatalf("AdjustFoundation: %v", err)
	}
	m, err := geometry.Discretize(adj.Sections, adj.BaseElevation, geometry.MeshOptions{})
	if err != nil {
		t.Fatalf("Discretize: %v", err)
	}
	return m
}

func TestNodeAtOrBelow(t *testing.T) {
	z := []float64{-45, -40, -35, -30, -20, 0, 30}
	tests := []struct {
		name string
		elev float64
		want int
	}{
		{"exact node", -30, 3},
		{"between nodes", 10, 5},
		{"just under node", -30 - 1e-12, 3},
		{"below mesh", -100, 0},
		{"above mesh", 100, 6},
		{"top", 30, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NodeAtOrBelow(z, tt.elev); got != tt.want {
				t.Errorf("NodeAtOrBelow(%v) = %d, want %d", tt.elev, got, tt.want)
			}
		})
	}
}

func TestBoundaryLand(t *testing.T) {
	sup := Boundary([]float64{0, 10, 20}, false, -30, soil.Uniform(1))
	if len(sup) != 1 || sup[0].Node != 0 {
		t.Fatalf("supports = %+v, want single clamp at node 0", sup)
	}
	for i, k := range sup[0].K.Array() {
		if k != frame.RigidStiffness {
			t.Errorf("k[%d] = %v, want rigid", i, k)
		}
	}
}

func TestAssembleMonopile(t *testing.T) {
	m := monopileMesh(t)
	k := soil.Stiffness{X: 1e9, Y: 1e9, Z: 2e9, TX: 3e11, TY: 3e11, TZ: 4e11}
	out, err := Assemble(Input{
		Mesh:                  m,
		Monopile:              true,
		Mudline:               -30,
		FoundationElevation:   -45,
		Soil:                  k,
		RNA:                   PointMass{Mass: 2e5, Offset: inertia.Vec3{-3, 0, 1}},
		TransitionElevation:   15,
		TransitionPieceMass:   1e5,
		GravityFoundationMass: 1e4,
		Force:                 inertia.Vec3{1e6, 0, 0},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	nodes := out.SupportNodes()
	want := []int{0, 1, 2, 3}
	if len(nodes) != len(want) {
		t.Fatalf("support nodes = %v, want %v", nodes, want)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Errorf("support nodes = %v, want %v", nodes, want)
			break
		}
		for j, v := range out.Supports[i].K.Array() {
			if !(v > 0 && v < frame.RigidStiffness) {
				t.Errorf("support %d k[%d] = %v, want finite positive", i, j, v)
			}
		}
	}

	if len(out.Masses) != 3 {
		t.Fatalf("got %d masses, want 3", len(out.Masses))
	}
	top := out.Masses[SlotTop]
	if top.Node != m.Nodes()-1 {
		t.Errorf("top mass node = %d, want %d", top.Node, m.Nodes()-1)
	}
	if got := top.Inertia[inertia.XZ]; math.Abs(got-6e5) > 1e-6 {
		t.Errorf("top Ixz = %v, want 6e5", got)
	}
	if z := m.Z[out.Masses[SlotTransition].Node]; z > 15 {
		t.Errorf("transition node at %v, above 15", z)
	}
	if out.Masses[SlotFoundation].Node != 0 {
		t.Errorf("foundation node = %d, want 0", out.Masses[SlotFoundation].Node)
	}
	if len(out.Loads) != 1 || out.Loads[0].Node != m.Nodes()-1 {
		t.Errorf("loads = %+v, want one load at the top", out.Loads)
	}
}

func TestAssembleKeepsZeroMassSlots(t *testing.T) {
	m, err := geometry.Discretize(geometry.Sections{
		Heights:     []float64{40, 40},
		Diameters:   []float64{6, 5, 4},
		Thicknesses: []float64{0.03, 0.02},
	}, 0, geometry.MeshOptions{})
	if err != nil {
		t.Fatalf("Discretize: %v", err)
	}
	out, err := Assemble(Input{Mesh: m, RNA: PointMass{Mass: 3e5}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if got := out.MassNodes(); len(got) != 3 || got[0] != m.Nodes()-1 {
		t.Errorf("mass nodes = %v", got)
	}
	if out.Masses[SlotTransition].Mass != 0 || out.Masses[SlotFoundation].Mass != 0 {
		t.Errorf("expected zero transition and foundation masses, got %+v", out.Masses)
	}
}

func TestAttachByIndex(t *testing.T) {
	z := []float64{-45, -40, -35, -30, -20, -10, 0, 10, 20, 30, 40, 50, 60}
	d := make([]float64, len(z))
	for i := range d {
		d[i] = 10
	}
	out, err := Assemble(Input{
		Mesh:                geometry.Mesh{Z: z, Diameter: d, Thickness: make([]float64, len(z)-1)},
		TransitionElevation: 15,
		TransitionPieceMass: 1e2,
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	tp := out.Masses[SlotTransition]
	if tp.Node != 7 {
		t.Fatalf("node = %d, want 7", tp.Node)
	}
	if tp.Offset != (inertia.Vec3{}) {
		t.Errorf("offset = %v, want zero", tp.Offset)
	}
	want := inertia.Tensor{1250, 1250, 2500}
	if tp.Inertia != want {
		t.Errorf("inertia = %v, want %v", tp.Inertia, want)
	}

	pm := Attach(z, 15, PointMass{Mass: 100, Offset: inertia.Vec3{0, 0, 2}})
	if pm.Node != 7 || pm.Offset != (inertia.Vec3{0, 0, 2}) {
		t.Errorf("node = %d offset = %v, want 7 and the given offset", pm.Node, pm.Offset)
	}
	if pm.Inertia[inertia.XX] != 400 || pm.Inertia[inertia.ZZ] != 0 {
		t.Errorf("inertia = %v, want Ixx = 400 Izz = 0", pm.Inertia)
	}
}

func TestAssembleErrors(t *testing.T) {
	m := monopileMesh(t)
	tests := []struct {
		name string
		in   Input
		code errors.Code
	}{
		{"mudline below base", Input{Mesh: m, Monopile: true, Mudline: -100}, errors.ErrCodeGeometry},
		{"nan mass", Input{Mesh: m, RNA: PointMass{Mass: math.NaN()}}, errors.ErrCodeGeometry},
		{"empty mesh", Input{}, errors.ErrCodeGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.in)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}
