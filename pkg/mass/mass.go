// Package mass splits the distributed shell mass between tower and monopile
// and blends in the transition piece and gravity foundation point masses.
package mass

import (
	"gonum.org/v1/gonum/interp"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/shell"
)

// Input bundles the distributed properties with the point masses that share
// the lower part of the structure.
type Input struct {
	Mesh       geometry.Mesh
	Properties shell.Properties
	Monopile   bool
	// TransitionElevation is where the tower sits on the monopile. Mass
	// below it belongs to the monopile.
	TransitionElevation float64
	// MudlineElevation locates the gravity foundation mass.
	MudlineElevation      float64
	TransitionPieceMass   float64
	GravityFoundationMass float64
}

// Summary is the mass, cost and inertia budget of the structure.
type Summary struct {
	// DistributedMass is the shell mass of tower plus monopile.
	DistributedMass float64 `json:"distributed_mass"`
	TowerMass       float64 `json:"tower_mass"`
	// MonopileMass excludes the transition piece and gravity foundation.
	MonopileMass float64 `json:"monopile_mass"`
	// MonopileTotalMass includes them.
	MonopileTotalMass float64 `json:"monopile_total_mass"`
	TowerCost         float64 `json:"tower_cost"`
	MonopileCost      float64 `json:"monopile_cost"`
	MonopileLength    float64 `json:"monopile_length"`
	// CenterOfMass blends the shell with both point masses.
	CenterOfMass        float64        `json:"center_of_mass"`
	ElementCenterOfMass []float64      `json:"element_center_of_mass"`
	IBase               inertia.Tensor `json:"i_base"`
}

// Assemble computes the mass summary.
func Assemble(in Input) (Summary, error) {
	m, p := in.Mesh, in.Properties
	if len(p.Mass) != m.Elements() {
		return Summary{}, errors.New(errors.ErrCodeGeometry,
			"section properties cover %d elements, mesh has %d", len(p.Mass), m.Elements())
	}
	if err := errors.ValidateFinite("point masses", in.TransitionPieceMass, in.GravityFoundationMass); err != nil {
		return Summary{}, err
	}

	s := Summary{
		DistributedMass:     p.TotalMass,
		ElementCenterOfMass: append([]float64(nil), p.ElementCenterOfMass...),
		IBase:               p.IBase,
	}

	if in.Monopile {
		split := in.TransitionElevation
		s.MonopileMass = CumulativeAt(m.Z, p.CumulativeMass(), split)
		s.MonopileLength = split - m.Z[0]
		if s.MonopileLength < 0 {
			s.MonopileLength = 0
		}
	}
	s.TowerMass = p.TotalMass - s.MonopileMass
	s.MonopileTotalMass = s.MonopileMass + in.TransitionPieceMass + in.GravityFoundationMass

	if p.TotalMass > 0 {
		ratio := s.MonopileMass / p.TotalMass
		s.MonopileCost = ratio * p.TotalCost
		s.TowerCost = p.TotalCost - s.MonopileCost
	}

	den := p.TotalMass + in.TransitionPieceMass + in.GravityFoundationMass
	num := p.TotalMass*p.CenterOfMass +
		in.TransitionPieceMass*in.TransitionElevation +
		in.GravityFoundationMass*in.MudlineElevation
	if den > 0 {
		s.CenterOfMass = num / den
	}
	return s, nil
}

// CumulativeAt linearly interpolates a node-wise cumulative quantity at
// elevation z. Values outside the mesh clamp to the end values.
func CumulativeAt(nodes, cum []float64, z float64) float64 {
	if len(nodes) < 2 {
		return 0
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(nodes, cum); err != nil {
		return 0
	}
	return pl.Predict(z)
}
