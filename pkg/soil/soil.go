// Package soil computes the six spring stiffnesses of an embedded circular
// foundation in an elastic half-space.
package soil

import (
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
)

// Model describes the soil and the embedded pile.
type Model struct {
	// ShearModulus of the soil.
	ShearModulus float64 `json:"shear_modulus" toml:"shear_modulus"`
	// Poisson ratio of the soil, in [0, 0.5].
	Poisson float64 `json:"poisson" toml:"poisson"`
}

// Stiffness holds translational (X, Y, Z) and rotational (TX, TY, TZ) spring
// constants.
type Stiffness struct {
	X  float64 `json:"kx"`
	Y  float64 `json:"ky"`
	Z  float64 `json:"kz"`
	TX float64 `json:"ktx"`
	TY float64 `json:"kty"`
	TZ float64 `json:"ktz"`
}

// Array returns the stiffnesses as [X, Y, Z, TX, TY, TZ].
func (k Stiffness) Array() [6]float64 {
	return [6]float64{k.X, k.Y, k.Z, k.TX, k.TY, k.TZ}
}

// Uniform returns a stiffness with all six components equal to v.
func Uniform(v float64) Stiffness {
	return Stiffness{v, v, v, v, v, v}
}

// Validate checks the soil parameters.
func (m Model) Validate() error {
	if !(m.ShearModulus > 0) {
		return errors.New(errors.ErrCodeConfiguration, "soil shear modulus must be positive, got %v", m.ShearModulus)
	}
	if !(m.Poisson >= 0 && m.Poisson <= 0.5) {
		return errors.New(errors.ErrCodeConfiguration, "soil Poisson ratio must lie in [0, 0.5], got %v", m.Poisson)
	}
	return nil
}

// Stiffness returns the foundation springs for a pile of outer diameter d
// embedded to depth h. Embedment raises every mode except torsion.
func (m Model) Stiffness(d, h float64) (Stiffness, error) {
	if err := m.Validate(); err != nil {
		return Stiffness{}, err
	}
	if !(d > 0) {
		return Stiffness{}, errors.New(errors.ErrCodeGeometry, "pile diameter must be positive, got %v", d)
	}
	if h < 0 || math.IsNaN(h) {
		return Stiffness{}, errors.New(errors.ErrCodeGeometry, "embedment must be non-negative, got %v", h)
	}

	G, nu := m.ShearModulus, m.Poisson
	r0 := 0.5 * d
	e := h / r0

	etaZ := 1 + 0.6*(1-nu)*e
	kz := 4 * G * r0 * etaZ / (1 - nu)

	etaX := 1 + 0.55*(2-nu)*e
	kx := 32 * (1 - nu) * G * r0 * etaX / (7 - 8*nu)

	etaR := 1 + 1.2*(1-nu)*e + 0.2*(2-nu)*e*e*e
	kr := 8 * G * r0 * r0 * r0 * etaR / (3 * (1 - nu))

	kt := 16 * G * r0 * r0 * r0 / 3

	return Stiffness{X: kx, Y: kx, Z: kz, TX: kr, TY: kr, TZ: kt}, nil
}
