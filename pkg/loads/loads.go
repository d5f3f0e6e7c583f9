package loads

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"

	"github.com/matzehuels/pylon/pkg/errors"
)

// Gravity is the standard acceleration of gravity.
const Gravity = 9.80633

// Fluid properties.
type Fluid struct {
	Density   float64 `json:"density" toml:"density"`
	Viscosity float64 `json:"viscosity" toml:"viscosity"`
}

// Default fluids.
var (
	Air   = Fluid{Density: 1.225, Viscosity: 1.7934e-5}
	Water = Fluid{Density: 1025.0, Viscosity: 1.3351e-3}
)

// Distributed is a force per unit length at every node.
type Distributed struct {
	Px []float64 `json:"px"`
	Py []float64 `json:"py"`
	Pz []float64 `json:"pz"`
}

// Zero returns an all-zero load for n nodes.
func Zero(n int) Distributed {
	return Distributed{Px: make([]float64, n), Py: make([]float64, n), Pz: make([]float64, n)}
}

// Len returns the number of nodes.
func (d Distributed) Len() int { return len(d.Px) }

// Add returns the node-wise sum of d and o.
func (d Distributed) Add(o Distributed) Distributed {
	out := Zero(d.Len())
	floats.AddTo(out.Px, d.Px, o.Px)
	floats.AddTo(out.Py, d.Py, o.Py)
	floats.AddTo(out.Pz, d.Pz, o.Pz)
	return out
}

// Generator produces distributed loads on a mesh.
type Generator interface {
	Distributed(z, diameter []float64) (Distributed, error)
}

// Combine sums the loads of several generators.
func Combine(gens ...Generator) Generator { return combined(gens) }

type combined []Generator

func (c combined) Distributed(z, diameter []float64) (Distributed, error) {
	total := Zero(len(z))
	for _, g := range c {
		if g == nil {
			continue
		}
		d, err := g.Distributed(z, diameter)
		if err != nil {
			return Distributed{}, err
		}
		total = total.Add(d)
	}
	return total, nil
}

func checkMesh(z, diameter []float64) error {
	if len(z) != len(diameter) {
		return errors.New(errors.ErrCodeGeometry, "load mesh has %d elevations and %d diameters", len(z), len(diameter))
	}
	return nil
}

// project splits a horizontal line load along heading (degrees).
func project(out *Distributed, i int, p, heading float64) {
	rad := heading * math.Pi / 180
	out.Px[i] = p * math.Cos(rad)
	out.Py[i] = p * math.Sin(rad)
}

// smooth-cylinder drag curve on log10(Re)
var (
	dragLogRe = []float64{0, 1, 2, 3, 4, 5, math.Log10(2e5), math.Log10(3e5), math.Log10(5e5), 6, math.Log10(3e6), 7}
	dragCd    = []float64{10.0, 2.8, 1.45, 1.0, 1.15, 1.2, 1.1, 0.6, 0.3, 0.35, 0.55, 0.7}
	dragCurve = func() interp.PiecewiseLinear {
		var pl interp.PiecewiseLinear
		if err := pl.Fit(dragLogRe, dragCd); err != nil {
			panic(err)
		}
		return pl
	}()
)

// CylinderDrag returns the drag coefficient of a smooth circular cylinder at
// Reynolds number re. Values outside the tabulated range clamp to the ends.
func CylinderDrag(re float64) float64 {
	if re <= 1 {
		return dragCd[0]
	}
	return dragCurve.Predict(math.Log10(re))
}

// Reynolds returns the Reynolds number for flow at speed u past diameter d.
func (f Fluid) Reynolds(u, d float64) float64 {
	if f.Viscosity <= 0 {
		return math.Inf(1)
	}
	return f.Density * math.Abs(u) * d / f.Viscosity
}

// dragPerLength returns ½ρu|u|·Cd·d, using cd when positive and the cylinder
// curve otherwise.
func dragPerLength(f Fluid, u, d, cd float64) float64 {
	if cd <= 0 {
		cd = CylinderDrag(f.Reynolds(u, d))
	}
	return 0.5 * f.Density * u * math.Abs(u) * cd * d
}
