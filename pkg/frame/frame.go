package frame

import (
	"context"
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/loads"
	"github.com/matzehuels/pylon/pkg/soil"
	"gonum.org/v1/gonum/mat"
)

// RigidStiffness marks a degree of freedom as fully fixed.
const RigidStiffness = 1e16

// DefaultModes is the number of natural frequencies reported.
const DefaultModes = 6

// Material is an isotropic elastic material.
type Material struct {
	E       float64 `json:"e" toml:"e"`
	G       float64 `json:"g" toml:"g"`
	Density float64 `json:"density" toml:"density"`
	Yield   float64 `json:"yield" toml:"yield"`
}

// Steel is a structural steel with density raised for secondary steel.
var Steel = Material{E: 210e9, G: 80.8e9, Density: 8500, Yield: 450e6}

// Support is a set of six springs on one node.
type Support struct {
	Node int            `json:"node"`
	K    soil.Stiffness `json:"k"`
}

// PointMass is a lumped mass attached to a node. Inertia is expressed about
// the node and must already include the offset, i.e. it is at least
// inertia.Translate(inertia.Tensor{}, Mass, Offset). Offset points from the
// node to the mass's centre of gravity.
type PointMass struct {
	Node    int            `json:"node"`
	Mass    float64        `json:"mass"`
	Inertia inertia.Tensor `json:"inertia"`
	Offset  inertia.Vec3   `json:"offset"`
}

// PointLoad is a concentrated force and moment on a node.
type PointLoad struct {
	Node   int          `json:"node"`
	Force  inertia.Vec3 `json:"force"`
	Moment inertia.Vec3 `json:"moment"`
}

// Input is everything a solver needs for one load case.
type Input struct {
	// Z holds node elevations; nodes lie on the z axis.
	Z []float64 `json:"z"`
	// Diameter holds the outer diameter at each node.
	Diameter []float64 `json:"diameter"`
	// Thickness holds the wall thickness of each element.
	Thickness []float64 `json:"thickness"`
	// ElementMass overrides density·volume when set, e.g. to carry an
	// outfitting factor.
	ElementMass []float64 `json:"element_mass,omitempty"`
	Material    Material  `json:"material"`

	Supports    []Support         `json:"supports"`
	Masses      []PointMass       `json:"masses"`
	Loads       []PointLoad       `json:"loads"`
	Distributed loads.Distributed `json:"distributed"`

	Gravity bool `json:"gravity"`
	Modes   int  `json:"modes,omitempty"`
}

// Nodes returns the node count.
func (in Input) Nodes() int { return len(in.Z) }

// Elements returns the element count.
func (in Input) Elements() int { return len(in.Thickness) }

// Validate checks array shapes and node references.
func (in Input) Validate() error {
	n := len(in.Z)
	if n < 2 {
		return errors.New(errors.ErrCodeGeometry, "frame needs at least two nodes, got %d", n)
	}
	if err := errors.ValidateIncreasing("node elevations", in.Z); err != nil {
		return err
	}
	if err := errors.ValidateLength("node diameters", len(in.Diameter), n); err != nil {
		return err
	}
	if err := errors.ValidateLength("element thicknesses", len(in.Thickness), n-1); err != nil {
		return err
	}
	if in.ElementMass != nil {
		if err := errors.ValidateLength("element masses", len(in.ElementMass), n-1); err != nil {
			return err
		}
	} else if !(in.Material.Density > 0) {
		return errors.New(errors.ErrCodeConfiguration, "material density must be positive when element masses are not given")
	}
	if d := in.Distributed.Len(); d != 0 && (d != n || len(in.Distributed.Py) != n || len(in.Distributed.Pz) != n) {
		return errors.New(errors.ErrCodeGeometry, "distributed load has %d entries for %d nodes", d, n)
	}
	if err := errors.ValidatePositive("material", in.Material.E, in.Material.G, in.Material.Yield); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid material")
	}
	if len(in.Supports) == 0 {
		return errors.New(errors.ErrCodeConfiguration, "frame has no supports")
	}
	for _, s := range in.Supports {
		if s.Node < 0 || s.Node >= n {
			return errors.New(errors.ErrCodeConfiguration, "support node %d out of range", s.Node)
		}
	}
	for _, m := range in.Masses {
		if m.Node < 0 || m.Node >= n {
			return errors.New(errors.ErrCodeConfiguration, "mass node %d out of range", m.Node)
		}
		if err := m.validate(); err != nil {
			return err
		}
	}
	for _, l := range in.Loads {
		if l.Node < 0 || l.Node >= n {
			return errors.New(errors.ErrCodeConfiguration, "load node %d out of range", l.Node)
		}
	}
	return nil
}

// validate rejects negative masses and node inertias that do not cover the
// offset term m·SᵀS, either of which makes the mass matrix indefinite.
func (pm PointMass) validate() error {
	if !(pm.Mass >= 0) || math.IsInf(pm.Mass, 0) {
		return errors.New(errors.ErrCodeConfiguration, "point mass on node %d must be finite and non-negative, got %v", pm.Node, pm.Mass)
	}
	shift := inertia.Translate(inertia.Tensor{}, pm.Mass, pm.Offset)
	scale := 1.0
	for i := range shift {
		scale = max(scale, math.Abs(pm.Inertia[i]), math.Abs(shift[i]))
	}
	I, S := pm.Inertia.Matrix(), shift.Matrix()
	sym := mat.NewSymDense(3, nil)
	for r := range 3 {
		for c := r; c < 3; c++ {
			sym.SetSym(r, c, I[r][c]-S[r][c])
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(sym, false) {
		return errors.New(errors.ErrCodeConfiguration, "point mass on node %d: inertia is not a valid tensor", pm.Node)
	}
	if v := eig.Values(nil); v[0] < -1e-9*scale {
		return errors.New(errors.ErrCodeConfiguration,
			"point mass on node %d: inertia %v does not include the offset term for mass %v at %v", pm.Node, pm.Inertia, pm.Mass, pm.Offset)
	}
	return nil
}

// SectionForces are the resultants at the bottom of an element, acting on
// the structure below it. Axial force is positive in tension.
type SectionForces struct {
	Force  inertia.Vec3 `json:"force"`
	Moment inertia.Vec3 `json:"moment"`
}

// Axial returns the axial force.
func (s SectionForces) Axial() float64 { return s.Force[2] }

// Shear returns the resultant shear force.
func (s SectionForces) Shear() float64 { return math.Hypot(s.Force[0], s.Force[1]) }

// Bending returns the resultant bending moment.
func (s SectionForces) Bending() float64 { return math.Hypot(s.Moment[0], s.Moment[1]) }

// Torsion returns the torsional moment.
func (s SectionForces) Torsion() float64 { return s.Moment[2] }

// Output is the response to one load case.
type Output struct {
	// Displacements holds (ux, uy, uz, θx, θy, θz) for each node.
	Displacements [][6]float64 `json:"displacements"`
	// TopDeflection is the horizontal deflection of the top node.
	TopDeflection float64 `json:"top_deflection"`
	// Frequencies are the lowest natural frequencies in Hz, ascending.
	Frequencies []float64       `json:"frequencies"`
	Forces      []SectionForces `json:"forces"`
	// BaseForce and BaseMoment are the total support reactions, moments
	// taken about the lowest node.
	BaseForce  inertia.Vec3 `json:"base_force"`
	BaseMoment inertia.Vec3 `json:"base_moment"`

	// Raw utilisation ratios per element, without safety factors.
	Stress         []float64 `json:"stress"`
	GlobalBuckling []float64 `json:"global_buckling"`
	ShellBuckling  []float64 `json:"shell_buckling"`
}

// FirstFrequency returns the lowest natural frequency, or 0 when none were
// computed.
func (o Output) FirstFrequency() float64 {
	if len(o.Frequencies) == 0 {
		return 0
	}
	return o.Frequencies[0]
}

// Solver evaluates one load case.
type Solver interface {
	Solve(ctx context.Context, in Input) (Output, error)
}
