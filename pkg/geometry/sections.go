package geometry

import (
	"github.com/matzehuels/pylon/pkg/errors"
)

// Sections is the coarse, per-section parametrisation of a tower.
type Sections struct {
	Heights     []float64 `json:"heights" toml:"heights"`
	Diameters   []float64 `json:"diameters" toml:"diameters"`
	Thicknesses []float64 `json:"thicknesses" toml:"thicknesses"`
}

// Len returns the number of sections.
func (s Sections) Len() int { return len(s.Heights) }

// Validate checks the shape invariant and that all values are positive.
func (s Sections) Validate() error {
	n := len(s.Heights)
	if n == 0 {
		return errors.New(errors.ErrCodeGeometry, "tower needs at least one section")
	}
	if err := errors.ValidateLength("diameters", len(s.Diameters), n+1); err != nil {
		return err
	}
	if err := errors.ValidateLength("thicknesses", len(s.Thicknesses), n); err != nil {
		return err
	}
	if err := errors.ValidatePositive("heights", s.Heights...); err != nil {
		return err
	}
	if err := errors.ValidatePositive("diameters", s.Diameters...); err != nil {
		return err
	}
	if err := errors.ValidatePositive("thicknesses", s.Thicknesses...); err != nil {
		return err
	}
	for i, t := range s.Thicknesses {
		if 2*t > s.Diameters[i] || 2*t > s.Diameters[i+1] {
			return errors.New(errors.ErrCodeGeometry, "section %d wall thickness %v exceeds its radius", i, t)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s Sections) Clone() Sections {
	return Sections{
		Heights:     append([]float64(nil), s.Heights...),
		Diameters:   append([]float64(nil), s.Diameters...),
		Thicknesses: append([]float64(nil), s.Thicknesses...),
	}
}

// Elevations returns the absolute elevation of every section boundary,
// starting at base.
func (s Sections) Elevations(base float64) []float64 {
	z := make([]float64, len(s.Heights)+1)
	z[0] = base
	for i, h := range s.Heights {
		z[i+1] = z[i] + h
	}
	return z
}

// Length returns the summed section heights.
func (s Sections) Length() float64 {
	var total float64
	for _, h := range s.Heights {
		total += h
	}
	return total
}
