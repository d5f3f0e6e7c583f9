// Package assembly translates the physical description of a tower (mesh,
// foundation, point masses and rotor loads) into the node-indexed input of a
// frame solver.
//
// Every point mass is attached to the highest mesh node at or below its
// nominal elevation (see [NodeAtOrBelow]); positions are never interpolated.
// Masses are always emitted in the order top (rotor-nacelle assembly),
// transition piece, gravity foundation, and a zero mass keeps its slot.
package assembly

import (
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/frame"
	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/soil"
)

// nodeTolerance absorbs round-off when an elevation coincides with a node.
const nodeTolerance = 1e-8

// Mass slots in the assembled output.
const (
	SlotTop = iota
	SlotTransition
	SlotFoundation
)

// PointMass is a concentrated mass described about its own centre of mass.
type PointMass struct {
	Mass float64 `json:"mass" toml:"mass"`
	// Inertia about the mass's own centre of mass.
	Inertia inertia.Tensor `json:"inertia" toml:"inertia"`
	// Offset from the attachment point to the centre of mass.
	Offset inertia.Vec3 `json:"offset" toml:"offset"`
}

// Input describes the structure and the loads of one load case.
type Input struct {
	Mesh     geometry.Mesh
	Monopile bool
	// Mudline bounds the nodes that receive soil springs.
	Mudline float64
	// FoundationElevation is the structural base the gravity foundation sits on.
	FoundationElevation float64
	// Soil is the spring set applied to every buried node.
	Soil soil.Stiffness

	RNA                   PointMass
	TransitionElevation   float64
	TransitionPieceMass   float64
	GravityFoundationMass float64

	// Force and Moment act at the tower top.
	Force  inertia.Vec3
	Moment inertia.Vec3
}

// Output is the node-indexed boundary, mass and load set.
type Output struct {
	Supports []frame.Support   `json:"supports"`
	Masses   []frame.PointMass `json:"masses"`
	Loads    []frame.PointLoad `json:"loads"`
}

// SupportNodes returns the node index of each support.
func (o Output) SupportNodes() []int {
	idx := make([]int, len(o.Supports))
	for i, s := range o.Supports {
		idx[i] = s.Node
	}
	return idx
}

// MassNodes returns the attachment node of each mass in slot order.
func (o Output) MassNodes() []int {
	idx := make([]int, len(o.Masses))
	for i, m := range o.Masses {
		idx[i] = m.Node
	}
	return idx
}

// NodeAtOrBelow returns the index of the highest node whose elevation does
// not exceed elevation. Elevations below the first node map to node 0.
// z must be increasing.
func NodeAtOrBelow(z []float64, elevation float64) int {
	idx := 0
	for i, v := range z {
		if v <= elevation+nodeTolerance {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// Boundary returns the support set: a rigid clamp at node 0 for land towers,
// or one spring set per node at or below the mudline for monopiles.
func Boundary(z []float64, monopile bool, mudline float64, k soil.Stiffness) []frame.Support {
	if !monopile {
		return []frame.Support{{Node: 0, K: soil.Uniform(frame.RigidStiffness)}}
	}
	var out []frame.Support
	for i, v := range z {
		if v > mudline+nodeTolerance {
			break
		}
		out = append(out, frame.Support{Node: i, K: k})
	}
	return out
}

// Attach places a point mass at the node at or below elevation and returns
// its node-frame description. Placement is by index only: the gap between
// elevation and the node is not carried into the offset or the inertia.
func Attach(z []float64, elevation float64, pm PointMass) frame.PointMass {
	return frame.PointMass{
		Node:    NodeAtOrBelow(z, elevation),
		Mass:    pm.Mass,
		Inertia: inertia.Translate(pm.Inertia, pm.Mass, pm.Offset),
		Offset:  pm.Offset,
	}
}

// Assemble builds the frame boundary conditions, masses and top loads.
func Assemble(in Input) (Output, error) {
	z := in.Mesh.Z
	if len(z) < 2 || len(in.Mesh.Diameter) != len(z) {
		return Output{}, errors.New(errors.ErrCodeGeometry, "mesh has %d nodes and %d diameters", len(z), len(in.Mesh.Diameter))
	}
	if err := errors.ValidateFinite("point masses", in.RNA.Mass, in.TransitionPieceMass, in.GravityFoundationMass); err != nil {
		return Output{}, err
	}
	for _, k := range in.Soil.Array() {
		if in.Monopile && (k < 0 || math.IsNaN(k)) {
			return Output{}, errors.New(errors.ErrCodeGeometry, "soil stiffness must be non-negative, got %v", in.Soil)
		}
	}

	out := Output{
		Supports: Boundary(z, in.Monopile, in.Mudline, in.Soil),
		Masses:   make([]frame.PointMass, 3),
	}
	if len(out.Supports) == 0 {
		return Output{}, errors.New(errors.ErrCodeGeometry,
			"no node at or below the mudline %v (base at %v)", in.Mudline, z[0])
	}

	top := z[len(z)-1]
	out.Masses[SlotTop] = Attach(z, top, in.RNA)

	tpNode := NodeAtOrBelow(z, in.TransitionElevation)
	out.Masses[SlotTransition] = Attach(z, in.TransitionElevation, PointMass{
		Mass:    in.TransitionPieceMass,
		Inertia: inertia.Ring(in.TransitionPieceMass, 0.5*in.Mesh.Diameter[tpNode]),
	})

	gfNode := NodeAtOrBelow(z, in.FoundationElevation)
	out.Masses[SlotFoundation] = Attach(z, in.FoundationElevation, PointMass{
		Mass:    in.GravityFoundationMass,
		Inertia: inertia.Disk(in.GravityFoundationMass, 0.5*in.Mesh.Diameter[gfNode]),
	})

	out.Loads = []frame.PointLoad{{
		Node:   NodeAtOrBelow(z, top),
		Force:  in.Force,
		Moment: in.Moment,
	}}
	return out, nil
}
