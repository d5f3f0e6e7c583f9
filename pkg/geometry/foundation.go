package geometry

import (
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
)

// MinEmbedment is the pile depth used when a monopile is requested with a
// zero or negative suction pile depth. This is a behaviour-preserving clamp
// that keeps a non-zero pile element in the mesh; it is not a physically
// derived minimum.
const MinEmbedment = 0.1

// Foundation locates the structure relative to the soil.
type Foundation struct {
	// Elevation of the mudline (monopile) or ground (land).
	Elevation float64 `json:"elevation" toml:"elevation"`
	// PileDepth is the requested embedded length below Elevation.
	PileDepth float64 `json:"pile_depth" toml:"pile_depth"`
	Monopile  bool    `json:"monopile" toml:"monopile"`
}

// Adjusted is the geometry after the pile has been accounted for.
type Adjusted struct {
	Sections Sections `json:"sections"`
	// BaseElevation is the elevation of the lowest structural node.
	BaseElevation float64 `json:"base_elevation"`
	// Mudline is the unadjusted foundation elevation.
	Mudline float64 `json:"mudline"`
	// Embedment is the pile depth actually used (zero for land towers).
	Embedment float64 `json:"embedment"`
	// Clamped reports that PileDepth was raised to MinEmbedment.
	Clamped bool `json:"clamped,omitempty"`
	// Extended reports that a pile section was prepended instead of split.
	Extended bool `json:"extended,omitempty"`
}

// AdjustFoundation reconciles the pile depth with the lowest section.
//
// Land towers are returned unchanged and any pile depth is ignored. For
// monopiles the first section is split at the pile depth, or a pile section is
// prepended when the split would leave less than MinEmbedment of it. The result always
// satisfies the Sections shape invariant.
func AdjustFoundation(s Sections, f Foundation) (Adjusted, error) {
	if err := s.Validate(); err != nil {
		return Adjusted{}, err
	}
	if err := errors.ValidateFinite("foundation elevation", f.Elevation); err != nil {
		return Adjusted{}, err
	}

	if !f.Monopile {
		return Adjusted{
			Sections:      s.Clone(),
			BaseElevation: f.Elevation,
			Mudline:       f.Elevation,
		}, nil
	}

	p := f.PileDepth
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Adjusted{}, errors.New(errors.ErrCodeGeometry, "pile depth is not finite (%v)", p)
	}
	clamped := false
	if p <= 0 {
		p = MinEmbedment
		clamped = true
	}

	h0 := s.Heights[0]
	d0 := s.Diameters[0]
	t0 := s.Thicknesses[0]

	out := Adjusted{
		BaseElevation: f.Elevation - p,
		Mudline:       f.Elevation,
		Embedment:     p,
		Clamped:       clamped,
	}

	// A split leaving less than MinEmbedment of the first section would
	// produce a near zero-length element; the pile is prepended instead.
	if h0-p < MinEmbedment {
		out.Extended = true
		out.Sections = Sections{
			Heights:     append([]float64{p}, s.Heights...),
			Diameters:   append([]float64{d0}, s.Diameters...),
			Thicknesses: append([]float64{t0}, s.Thicknesses...),
		}
		return out, nil
	}

	rest := h0 - p
	heights := make([]float64, 0, len(s.Heights)+1)
	heights = append(heights, p, rest)
	heights = append(heights, s.Heights[1:]...)
	out.Sections = Sections{
		Heights:     heights,
		Diameters:   append([]float64{d0}, s.Diameters...),
		Thicknesses: append([]float64{t0}, s.Thicknesses...),
	}
	return out, nil
}
