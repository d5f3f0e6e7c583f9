// Package shell computes distributed mass properties of thin-walled conical
// tower elements.
//
// An [Engine] turns a structural mesh plus material data into per-element
// mass, cost and centre of mass, together with the inertia tensor of the
// whole shell about its base node. [Cylinder] is the built-in engine; it
// models every element as a conical frustum shell with the wall thickness
// measured inward from the outer diameter.
package shell

import (
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/inertia"
)

// Input is everything the engine needs besides the mesh.
type Input struct {
	Mesh    geometry.Mesh
	Density float64
	// OutfittingFactor scales the structural mass for flanges, platforms and
	// internals. Zero means 1.
	OutfittingFactor float64
	// MaterialCostRate is the cost per unit mass.
	MaterialCostRate float64
	// PaintingCostRate is the cost per unit outer surface area.
	PaintingCostRate float64
}

// Properties are the distributed mass properties along the mesh.
type Properties struct {
	Mass []float64 `json:"mass"`
	Cost []float64 `json:"cost"`
	// ElementCenterOfMass is the elevation of each element's centre of mass.
	ElementCenterOfMass []float64 `json:"element_center_of_mass"`
	CenterOfMass        float64   `json:"center_of_mass"`
	TotalMass           float64   `json:"total_mass"`
	TotalCost           float64   `json:"total_cost"`
	// IBase is the inertia of the whole shell about the lowest node.
	IBase inertia.Tensor `json:"i_base"`
}

// CumulativeMass returns the running mass sum at each node, starting at 0.
func (p Properties) CumulativeMass() []float64 { return cumulative(p.Mass) }

// CumulativeCost returns the running cost sum at each node, starting at 0.
func (p Properties) CumulativeCost() []float64 { return cumulative(p.Cost) }

func cumulative(v []float64) []float64 {
	out := make([]float64, len(v)+1)
	for i, x := range v {
		out[i+1] = out[i] + x
	}
	return out
}

// Engine computes distributed mass properties.
type Engine interface {
	Properties(in Input) (Properties, error)
}

// Cylinder is the frustum-shell engine.
type Cylinder struct{}

var _ Engine = Cylinder{}

// Properties implements Engine.
func (Cylinder) Properties(in Input) (Properties, error) {
	m := in.Mesh
	if m.Elements() == 0 || m.Nodes() != m.Elements()+1 {
		return Properties{}, errors.New(errors.ErrCodeGeometry, "mesh has %d nodes for %d elements", m.Nodes(), m.Elements())
	}
	if err := errors.ValidatePositive("density", in.Density); err != nil {
		return Properties{}, err
	}
	outfit := in.OutfittingFactor
	if outfit == 0 {
		outfit = 1
	}

	n := m.Elements()
	p := Properties{
		Mass:                make([]float64, n),
		Cost:                make([]float64, n),
		ElementCenterOfMass: make([]float64, n),
	}
	z0 := m.Z[0]
	var moment float64
	for i := 0; i < n; i++ {
		L := m.ElementLength(i)
		Ra, Rb := 0.5*m.Diameter[i], 0.5*m.Diameter[i+1]
		t := m.Thickness[i]
		ra, rb := Ra-t, Rb-t

		vo, co := frustum(Ra, Rb, L)
		vi, ci := frustum(ra, rb, L)
		vol := vo - vi
		mass := in.Density * outfit * vol
		zc := m.Z[i] + (vo*co-vi*ci)/vol

		area := math.Pi * (Ra + Rb) * math.Hypot(Ra-Rb, L)
		p.Mass[i] = mass
		p.Cost[i] = in.MaterialCostRate*mass + in.PaintingCostRate*area
		p.ElementCenterOfMass[i] = zc

		// thick-walled tube with mean radii about its own centre of mass
		R2 := 0.25 * (Ra + Rb) * (Ra + Rb)
		r2 := 0.25 * (ra + rb) * (ra + rb)
		izz := 0.5 * mass * (R2 + r2)
		ixx := mass * (3*(R2+r2) + L*L) / 12
		own := inertia.Tensor{ixx, ixx, izz}
		p.IBase = p.IBase.Add(inertia.Translate(own, mass, inertia.Vec3{0, 0, zc - z0}))

		p.TotalMass += mass
		p.TotalCost += p.Cost[i]
		moment += mass * zc
	}
	p.CenterOfMass = moment / p.TotalMass
	return p, nil
}

// frustum returns the volume of a solid cone frustum with end radii a (bottom)
// and b (top) and the height of its centroid above the bottom face.
func frustum(a, b, L float64) (vol, zc float64) {
	s := a*a + a*b + b*b
	vol = math.Pi * L * s / 3
	if s == 0 {
		return 0, 0.5 * L
	}
	zc = L * (a*a + 2*a*b + 3*b*b) / (4 * s)
	return vol, zc
}
