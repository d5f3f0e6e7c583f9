package geometry

import (
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
)

const (
	// DefaultRefine is the minimum number of elements per section.
	DefaultRefine = 3

	// DefaultMaxElementLength bounds the node spacing.
	DefaultMaxElementLength = 15.0
)

// MeshOptions controls section refinement.
type MeshOptions struct {
	Refine           int     `json:"refine,omitempty" toml:"refine"`
	MaxElementLength float64 `json:"max_element_length,omitempty" toml:"max_element_length"`
}

// SetDefaults fills zero fields.
func (o *MeshOptions) SetDefaults() {
	if o.Refine <= 0 {
		o.Refine = DefaultRefine
	}
	if o.MaxElementLength <= 0 {
		o.MaxElementLength = DefaultMaxElementLength
	}
}

// Mesh is the refined structural model. Node arrays have one entry more than
// element arrays.
type Mesh struct {
	Z         []float64 `json:"z"`
	Diameter  []float64 `json:"diameter"`
	Thickness []float64 `json:"thickness"`
	// Section maps each element to the coarse section it was cut from.
	Section []int `json:"section"`
}

// Nodes returns the node count.
func (m Mesh) Nodes() int { return len(m.Z) }

// Elements returns the element count.
func (m Mesh) Elements() int { return len(m.Thickness) }

// Top returns the highest node elevation.
func (m Mesh) Top() float64 { return m.Z[len(m.Z)-1] }

// ElementLength returns the axial length of element i.
func (m Mesh) ElementLength(i int) float64 { return m.Z[i+1] - m.Z[i] }

// ElementDiameter returns the mean outer diameter of element i.
func (m Mesh) ElementDiameter(i int) float64 { return 0.5 * (m.Diameter[i] + m.Diameter[i+1]) }

// ElementMidpoint returns the elevation halfway along element i.
func (m Mesh) ElementMidpoint(i int) float64 { return 0.5 * (m.Z[i] + m.Z[i+1]) }

// Discretize refines sections standing on base into a mesh.
func Discretize(s Sections, base float64, opts MeshOptions) (Mesh, error) {
	if err := s.Validate(); err != nil {
		return Mesh{}, err
	}
	if err := errors.ValidateFinite("base elevation", base); err != nil {
		return Mesh{}, err
	}
	opts.SetDefaults()

	coarse := s.Elevations(base)
	m := Mesh{
		Z:        []float64{coarse[0]},
		Diameter: []float64{s.Diameters[0]},
	}
	for i, h := range s.Heights {
		n := int(math.Ceil(h / opts.MaxElementLength))
		if n < opts.Refine {
			n = opts.Refine
		}
		d0, d1 := s.Diameters[i], s.Diameters[i+1]
		for k := 1; k <= n; k++ {
			if k == n {
				// exact boundary, no accumulated rounding
				m.Z = append(m.Z, coarse[i+1])
				m.Diameter = append(m.Diameter, d1)
			} else {
				f := float64(k) / float64(n)
				m.Z = append(m.Z, coarse[i]+f*h)
				m.Diameter = append(m.Diameter, d0+f*(d1-d0))
			}
			m.Thickness = append(m.Thickness, s.Thicknesses[i])
			m.Section = append(m.Section, i)
		}
	}
	if err := errors.ValidateIncreasing("mesh elevations", m.Z); err != nil {
		return Mesh{}, err
	}
	return m, nil
}

// HeightConstraint returns hub - (max(z) - reference). Non-negative values
// leave room for the rotor-nacelle assembly.
func HeightConstraint(hub, reference float64, z []float64) float64 {
	if len(z) == 0 {
		return hub
	}
	top := z[0]
	for _, v := range z[1:] {
		if v > top {
			top = v
		}
	}
	return hub - (top - reference)
}
