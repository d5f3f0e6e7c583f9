package frame

import "math"

// VonMises returns the von Mises equivalent stress for axial stress sa, hoop
// stress sh and shear stress tau.
func VonMises(sa, sh, tau float64) float64 {
	return math.Sqrt(sa*sa + sh*sh - sa*sh + 3*tau*tau)
}

// StressUtilization returns the worst von Mises stress over both bending
// fibres divided by yield. Hoop stress is not modelled.
func StressUtilization(s Tube, f SectionForces, yield float64) float64 {
	axial := f.Axial() / s.A
	bend := f.Bending() * s.C / s.I
	tau := 2*f.Shear()/s.A + math.Abs(f.Torsion())*s.C/s.J
	vm := math.Max(VonMises(axial+bend, 0, tau), VonMises(axial-bend, 0, tau))
	return vm / yield
}

// GlobalBuckling is the Germanischer Lloyd interaction check for column
// buckling of a fixed-free tower of the given height, evaluated with unit
// safety factors.
func GlobalBuckling(s Tube, f SectionForces, height float64, m Material) float64 {
	const (
		alpha    = 0.21 // imperfection factor
		beta     = 1.0  // bending coefficient
		skFactor = 2.0  // fixed-free effective length
	)
	L := height * skFactor
	r := s.D / 2
	A := math.Pi * s.D * s.T
	I := math.Pi * r * r * r * s.T
	Wp := I / r

	Nd := -f.Axial()
	Md := f.Bending()
	Np := A * m.Yield
	Mp := Wp * m.Yield * beta

	Ne := math.Pi * math.Pi * m.E * I / (1.1 * L * L)
	lambda := math.Sqrt(Np / Ne)
	phi := 0.5 * (1 + alpha*(lambda-0.2) + lambda*lambda)
	kappa := 1.0
	if lambda > 0.2 {
		kappa = 1 / (phi + math.Sqrt(phi*phi-lambda*lambda))
	}
	deltaN := math.Min(0.25*kappa*lambda*lambda, 0.1)
	return Nd/(kappa*Np) + beta*Md/Mp + deltaN
}

// ShellBuckling is a meridional shell buckling check in the manner of
// EN 1993-1-6 (fabrication quality class B) for a shell segment of length
// length. Tensile meridional stress gives zero utilisation.
func ShellBuckling(s Tube, f SectionForces, length float64, m Material) float64 {
	sigma := -f.Axial()/s.A + f.Bending()*s.C/s.I
	if sigma <= 0 {
		return 0
	}
	r := s.MidRadius()
	t := s.T
	omega := length / math.Sqrt(r*t)

	cx := 1.0
	if omega > 0.5*r/t {
		cx = math.Max(0.6, 1+0.2*(1-2*omega*t/r))
	}
	crit := 0.605 * m.E * cx * t / r

	const (
		quality = 25.0
		lambda0 = 0.2
		beta    = 0.6
		eta     = 1.0
	)
	dwk := math.Sqrt(r/t) * t / quality
	alpha := 0.62 / (1 + 1.91*math.Pow(dwk/t, 1.44))
	lambda := math.Sqrt(m.Yield / crit)
	lambdaP := math.Sqrt(alpha / (1 - beta))

	var chi float64
	switch {
	case lambda <= lambda0:
		chi = 1
	case lambda < lambdaP:
		chi = 1 - beta*math.Pow((lambda-lambda0)/(lambdaP-lambda0), eta)
	default:
		chi = alpha / (lambda * lambda)
	}
	return sigma / (chi * m.Yield)
}
