package margin

import (
	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/geometry"
)

// Limits are the load-independent geometric design limits.
type Limits struct {
	// MinDToT is the smallest diameter-to-thickness ratio that can be rolled.
	MinDToT float64 `json:"min_d_to_t" toml:"min_d_to_t"`
	// MaxTaper is the largest relative diameter reduction within a section.
	MaxTaper float64 `json:"max_taper" toml:"max_taper"`
}

// DefaultLimits are typical for rolled and welded steel cans.
var DefaultLimits = Limits{MinDToT: 120, MaxTaper: 0.2}

// SetDefaults fills zero limits from DefaultLimits.
func (l *Limits) SetDefaults() {
	if l.MinDToT == 0 {
		l.MinDToT = DefaultLimits.MinDToT
	}
	if l.MaxTaper == 0 {
		l.MaxTaper = DefaultLimits.MaxTaper
	}
}

// Constraints are the per-section geometric margins.
type Constraints struct {
	DToT  []float64 `json:"d_to_t"`
	Taper []float64 `json:"taper"`
}

// Geometry evaluates the manufacturability and taper margins of every
// section. A section whose diameter grows upward has a negative taper margin.
func Geometry(s geometry.Sections, l Limits) (Constraints, error) {
	if err := s.Validate(); err != nil {
		return Constraints{}, err
	}
	if err := errors.ValidatePositive("geometric limits", l.MinDToT, l.MaxTaper); err != nil {
		return Constraints{}, errors.Wrap(errors.ErrCodeConfiguration, err, "invalid geometric limits")
	}
	n := s.Len()
	c := Constraints{DToT: make([]float64, n), Taper: make([]float64, n)}
	for i := range n {
		bot, top := s.Diameters[i], s.Diameters[i+1]
		ratio := 0.5 * (bot + top) / s.Thicknesses[i]
		c.DToT[i] = l.MinDToT / ratio
		c.Taper[i] = (1 - top/bot) / l.MaxTaper
	}
	return c, nil
}
