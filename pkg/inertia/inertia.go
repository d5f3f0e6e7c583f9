// Package inertia holds the 6-component mass moment of inertia tensor and the
// parallel-axis translation used to move point-mass inertias onto mesh nodes.
package inertia

// Vec3 is a Cartesian vector (x, y, z).
type Vec3 [3]float64

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }

// Scale returns s*v.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{s * v[0], s * v[1], s * v[2]} }

// Cross returns v x o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Tensor stores the independent components of a symmetric inertia tensor in
// the order Ixx, Iyy, Izz, Ixy, Ixz, Iyz.
type Tensor [6]float64

// Component indices.
const (
	XX = iota
	YY
	ZZ
	XY
	XZ
	YZ
)

// Add returns the component-wise sum.
func (t Tensor) Add(o Tensor) Tensor {
	var r Tensor
	for i := range t {
		r[i] = t[i] + o[i]
	}
	return r
}

// Matrix expands the tensor to a full 3x3 matrix. Off-diagonal entries are
// stored with their sign, so Ixy is the (0,1) entry as-is.
func (t Tensor) Matrix() [3][3]float64 {
	return [3][3]float64{
		{t[XX], t[XY], t[XZ]},
		{t[XY], t[YY], t[YZ]},
		{t[XZ], t[YZ], t[ZZ]},
	}
}

// Translate moves a tensor taken about a body's own centre of mass to a point
// displaced by -offset, where offset points from the new reference point to
// the centre of mass:
//
//	Ixx += m(dy²+dz²)   Ixy -= m·dx·dy
//	Iyy += m(dx²+dz²)   Ixz -= m·dx·dz
//	Izz += m(dx²+dy²)   Iyz -= m·dy·dz
func Translate(t Tensor, m float64, offset Vec3) Tensor {
	dx, dy, dz := offset[0], offset[1], offset[2]
	return Tensor{
		t[XX] + m*(dy*dy+dz*dz),
		t[YY] + m*(dx*dx+dz*dz),
		t[ZZ] + m*(dx*dx+dy*dy),
		t[XY] - m*dx*dy,
		t[XZ] - m*dx*dz,
		t[YZ] - m*dy*dz,
	}
}

// Ring is the inertia of a thin circular ring of mass m and radius r about
// its centre, axis along z.
func Ring(m, r float64) Tensor {
	c := m * r * r
	return Tensor{0.5 * c, 0.5 * c, c}
}

// Disk is the inertia of a solid circular disk of mass m and radius r about
// its centre, axis along z.
func Disk(m, r float64) Tensor {
	c := m * r * r
	return Tensor{0.25 * c, 0.25 * c, 0.5 * c}
}
