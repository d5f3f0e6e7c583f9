package loads

import (
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
)

// PowerWind is a power-law shear profile:
//
//	U(z) = Uref·((z-Z0)/(Zref-Z0))^Shear   for z > Z0, else 0
type PowerWind struct {
	Uref  float64 `json:"uref" toml:"uref"`
	Zref  float64 `json:"zref" toml:"zref"`
	Z0    float64 `json:"z0" toml:"z0"`
	Shear float64 `json:"shear" toml:"shear"`
	Air   Fluid   `json:"air" toml:"air"`
	// Cd overrides the Reynolds-dependent drag coefficient when positive.
	Cd      float64 `json:"cd,omitempty" toml:"cd"`
	Heading float64 `json:"heading,omitempty" toml:"heading"`
}

// Speed returns the wind speed at elevation z.
func (w PowerWind) Speed(z float64) float64 {
	if z <= w.Z0 {
		return 0
	}
	return w.Uref * math.Pow((z-w.Z0)/(w.Zref-w.Z0), w.Shear)
}

// Distributed implements Generator.
func (w PowerWind) Distributed(z, diameter []float64) (Distributed, error) {
	if err := checkMesh(z, diameter); err != nil {
		return Distributed{}, err
	}
	if !(w.Zref > w.Z0) {
		return Distributed{}, errors.New(errors.ErrCodeConfiguration, "wind reference height %v must exceed z0 %v", w.Zref, w.Z0)
	}
	return windLoad(w.Speed, w.Air, w.Cd, w.Heading, z, diameter), nil
}

// LogWind is a logarithmic boundary layer profile:
//
//	U(z) = Uref·ln((z-Z0)/Roughness)/ln((Zref-Z0)/Roughness)
//
// Speeds below the roughness length are zero.
type LogWind struct {
	Uref      float64 `json:"uref" toml:"uref"`
	Zref      float64 `json:"zref" toml:"zref"`
	Z0        float64 `json:"z0" toml:"z0"`
	Roughness float64 `json:"roughness" toml:"roughness"`
	Air       Fluid   `json:"air" toml:"air"`
	Cd        float64 `json:"cd,omitempty" toml:"cd"`
	Heading   float64 `json:"heading,omitempty" toml:"heading"`
}

// Speed returns the wind speed at elevation z.
func (w LogWind) Speed(z float64) float64 {
	h := z - w.Z0
	if h <= w.Roughness {
		return 0
	}
	return w.Uref * math.Log(h/w.Roughness) / math.Log((w.Zref-w.Z0)/w.Roughness)
}

// Distributed implements Generator.
func (w LogWind) Distributed(z, diameter []float64) (Distributed, error) {
	if err := checkMesh(z, diameter); err != nil {
		return Distributed{}, err
	}
	if !(w.Roughness > 0) || !(w.Zref-w.Z0 > w.Roughness) {
		return Distributed{}, errors.New(errors.ErrCodeConfiguration, "invalid log wind profile: zref=%v z0=%v roughness=%v", w.Zref, w.Z0, w.Roughness)
	}
	return windLoad(w.Speed, w.Air, w.Cd, w.Heading, z, diameter), nil
}

func windLoad(speed func(float64) float64, air Fluid, cd, heading float64, z, diameter []float64) Distributed {
	if air.Density == 0 {
		air = Air
	}
	out := Zero(len(z))
	for i := range z {
		u := speed(z[i])
		if u == 0 {
			continue
		}
		project(&out, i, dragPerLength(air, u, diameter[i], cd), heading)
	}
	return out
}
