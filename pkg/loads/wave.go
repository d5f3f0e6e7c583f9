package loads

import (
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
)

// LinearWave applies Airy wave kinematics through the Morison equation. Still
// water sits at elevation 0 and the seabed at -Depth. Drag and inertia
// amplitudes are added, which bounds the in-phase peak from above.
type LinearWave struct {
	Height float64 `json:"height" toml:"height"`
	Period float64 `json:"period" toml:"period"`
	Depth  float64 `json:"depth" toml:"depth"`
	Water  Fluid   `json:"water" toml:"water"`
	// Cd overrides the Reynolds-dependent drag coefficient when positive.
	Cd float64 `json:"cd,omitempty" toml:"cd"`
	// Cm is the inertia coefficient; zero means 2.
	Cm      float64 `json:"cm,omitempty" toml:"cm"`
	Heading float64 `json:"heading,omitempty" toml:"heading"`
}

// WaveNumber solves the dispersion relation ω² = g·k·tanh(k·h) with Newton's
// method.
func WaveNumber(omega, depth float64) float64 {
	k := omega * omega / Gravity
	if depth <= 0 {
		return k
	}
	for i := 0; i < 50; i++ {
		th := math.Tanh(k * depth)
		f := Gravity*k*th - omega*omega
		df := Gravity * (th + k*depth*(1-th*th))
		step := f / df
		k -= step
		if math.Abs(step) < 1e-12*k {
			break
		}
	}
	return k
}

// Kinematics returns horizontal particle velocity and acceleration amplitudes
// at elevation z (0 outside the water column).
func (w LinearWave) Kinematics(z float64) (u, a float64) {
	if w.Height == 0 || z > 0 || z < -w.Depth {
		return 0, 0
	}
	omega := 2 * math.Pi / w.Period
	k := WaveNumber(omega, w.Depth)
	amp := 0.5 * w.Height
	ratio := math.Cosh(k*(z+w.Depth)) / math.Sinh(k*w.Depth)
	u = amp * omega * ratio
	a = amp * omega * omega * ratio
	return u, a
}

// Distributed implements Generator.
func (w LinearWave) Distributed(z, diameter []float64) (Distributed, error) {
	if err := checkMesh(z, diameter); err != nil {
		return Distributed{}, err
	}
	out := Zero(len(z))
	if w.Height == 0 {
		return out, nil
	}
	if !(w.Period > 0) || !(w.Depth > 0) {
		return Distributed{}, errors.New(errors.ErrCodeConfiguration, "wave needs positive period and depth, got %v and %v", w.Period, w.Depth)
	}
	water := w.Water
	if water.Density == 0 {
		water = Water
	}
	cm := w.Cm
	if cm == 0 {
		cm = 2
	}
	for i := range z {
		u, a := w.Kinematics(z[i])
		if u == 0 && a == 0 {
			continue
		}
		d := diameter[i]
		drag := dragPerLength(water, u, d, w.Cd)
		inertial := water.Density * cm * math.Pi * d * d / 4 * a
		project(&out, i, drag+inertial, w.Heading)
	}
	return out, nil
}
