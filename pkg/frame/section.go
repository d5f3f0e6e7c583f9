package frame

import "math"

// Tube holds cross-section properties of a circular hollow section.
type Tube struct {
	D, T float64
	A    float64 // area
	I    float64 // second moment of area about a diameter
	J    float64 // polar moment
	C    float64 // outer fibre distance
}

// NewTube computes the section properties of a tube with outer diameter d and
// wall thickness t.
func NewTube(d, t float64) Tube {
	di := d - 2*t
	I := math.Pi / 64 * (math.Pow(d, 4) - math.Pow(di, 4))
	return Tube{
		D: d,
		T: t,
		A: math.Pi / 4 * (d*d - di*di),
		I: I,
		J: 2 * I,
		C: d / 2,
	}
}

// MidRadius returns the mid-surface radius.
func (s Tube) MidRadius() float64 { return 0.5 * (s.D - s.T) }
