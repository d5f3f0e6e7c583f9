package frame

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/loads"
)

const dof = 6

// BeamSolver is the built-in linear frame solver.
type BeamSolver struct{}

var _ Solver = BeamSolver{}

// Solve implements Solver.
func (BeamSolver) Solve(ctx context.Context, in Input) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	if err := in.Validate(); err != nil {
		return Output{}, err
	}

	n := in.Nodes()
	size := n * dof
	K := mat.NewSymDense(size, nil)
	M := mat.NewSymDense(size, nil)
	F := make([]float64, size)

	elems := make([][]float64, in.Elements())
	for e := 0; e < in.Elements(); e++ {
		ke, me, w := element(in, e)
		elems[e] = ke
		scatter(K, e, ke)
		scatter(M, e, me)
		if in.Gravity {
			F[e*dof+2] -= 0.5 * w
			F[(e+1)*dof+2] -= 0.5 * w
		}
	}
	distribute(in, F)

	for _, pm := range in.Masses {
		addPointMass(M, pm)
		if in.Gravity {
			w := inertia.Vec3{0, 0, -pm.Mass * loads.Gravity}
			mom := pm.Offset.Cross(w)
			for k := 0; k < 3; k++ {
				F[pm.Node*dof+k] += w[k]
				F[pm.Node*dof+3+k] += mom[k]
			}
		}
	}
	for _, pl := range in.Loads {
		for k := 0; k < 3; k++ {
			F[pl.Node*dof+k] += pl.Force[k]
			F[pl.Node*dof+3+k] += pl.Moment[k]
		}
	}

	fixed := make([]bool, size)
	for _, s := range in.Supports {
		for k, v := range s.K.Array() {
			i := s.Node*dof + k
			if v >= RigidStiffness {
				fixed[i] = true
			} else if v > 0 {
				K.SetSym(i, i, K.At(i, i)+v)
			}
		}
	}
	free := make([]int, 0, size)
	for i := 0; i < size; i++ {
		if !fixed[i] {
			free = append(free, i)
		}
	}
	if len(free) == 0 {
		return Output{}, errors.New(errors.ErrCodeSolverFailure, "every degree of freedom is fixed")
	}

	Kf := reduce(K, free)
	Mf := reduce(M, free)
	Ff := mat.NewVecDense(len(free), nil)
	for j, i := range free {
		Ff.SetVec(j, F[i])
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(Kf); !ok || chol.Cond() > mat.ConditionTolerance {
		return Output{}, errors.New(errors.ErrCodeSolverFailure, "stiffness matrix is singular or not positive definite")
	}
	var uf mat.VecDense
	if err := chol.SolveVecTo(&uf, Ff); err != nil {
		return Output{}, errors.Wrap(errors.ErrCodeSolverFailure, err, "static solve")
	}
	u := make([]float64, size)
	for j, i := range free {
		u[i] = uf.AtVec(j)
	}

	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	freqs, err := frequencies(Kf, Mf, in.Modes)
	if err != nil {
		return Output{}, err
	}

	out := Output{
		Displacements: make([][6]float64, n),
		Frequencies:   freqs,
		Forces:        make([]SectionForces, in.Elements()),
	}
	for i := 0; i < n; i++ {
		copy(out.Displacements[i][:], u[i*dof:(i+1)*dof])
	}
	top := out.Displacements[n-1]
	out.TopDeflection = math.Hypot(top[0], top[1])

	for e, ke := range elems {
		ue := u[e*dof : (e+2)*dof]
		var sf SectionForces
		for r := 0; r < dof; r++ {
			var f float64
			for c := 0; c < 2*dof; c++ {
				f += ke[r*2*dof+c] * ue[c]
			}
			if r < 3 {
				sf.Force[r] = -f
			} else {
				sf.Moment[r-3] = -f
			}
		}
		out.Forces[e] = sf
	}

	z0 := in.Z[0]
	for i := 0; i < n; i++ {
		f := inertia.Vec3{F[i*dof], F[i*dof+1], F[i*dof+2]}
		m := inertia.Vec3{F[i*dof+3], F[i*dof+4], F[i*dof+5]}
		arm := inertia.Vec3{0, 0, in.Z[i] - z0}
		out.BaseForce = out.BaseForce.Add(f.Scale(-1))
		out.BaseMoment = out.BaseMoment.Add(arm.Cross(f).Add(m).Scale(-1))
	}

	utilization(in, &out)
	return out, nil
}

// element returns the 12x12 stiffness and mass matrices (row-major) of
// element e and its weight.
func element(in Input, e int) (ke, me []float64, weight float64) {
	L := in.Z[e+1] - in.Z[e]
	d := 0.5 * (in.Diameter[e] + in.Diameter[e+1])
	s := NewTube(d, in.Thickness[e])
	mt := in.Material

	m := mt.Density * s.A * L
	if in.ElementMass != nil {
		m = in.ElementMass[e]
	}
	ro, ri := d/2, d/2-s.T
	ip := 0.5 * m * (ro*ro + ri*ri)

	ke = make([]float64, 144)
	me = make([]float64, 144)

	// axial uz and torsion θz
	bar(ke, 2, 8, mt.E*s.A/L)
	bar(ke, 5, 11, mt.G*s.J/L)
	pair(me, 2, 8, m/6)
	pair(me, 5, 11, ip/6)

	EI := mt.E * s.I / (L * L * L)
	kb := [4][4]float64{
		{12, 6 * L, -12, 6 * L},
		{6 * L, 4 * L * L, -6 * L, 2 * L * L},
		{-12, -6 * L, 12, -6 * L},
		{6 * L, 2 * L * L, -6 * L, 4 * L * L},
	}
	mb := [4][4]float64{
		{156, 22 * L, 54, -13 * L},
		{22 * L, 4 * L * L, 13 * L, -3 * L * L},
		{54, 13 * L, 156, -22 * L},
		{-13 * L, -3 * L * L, -22 * L, 4 * L * L},
	}
	// x-z plane: (ux, θy); y-z plane: (uy, -θx)
	bend(ke, kb, EI, [4]int{0, 4, 6, 10}, [4]float64{1, 1, 1, 1})
	bend(ke, kb, EI, [4]int{1, 3, 7, 9}, [4]float64{1, -1, 1, -1})
	bend(me, mb, m/420, [4]int{0, 4, 6, 10}, [4]float64{1, 1, 1, 1})
	bend(me, mb, m/420, [4]int{1, 3, 7, 9}, [4]float64{1, -1, 1, -1})

	return ke, me, m * loads.Gravity
}

func bar(k []float64, a, b int, v float64) {
	k[a*12+a] += v
	k[b*12+b] += v
	k[a*12+b] -= v
	k[b*12+a] -= v
}

func pair(k []float64, a, b int, v float64) {
	k[a*12+a] += 2 * v
	k[b*12+b] += 2 * v
	k[a*12+b] += v
	k[b*12+a] += v
}

func bend(k []float64, block [4][4]float64, scale float64, idx [4]int, sign [4]float64) {
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			k[idx[r]*12+idx[c]] += scale * sign[r] * sign[c] * block[r][c]
		}
	}
}

// scatter adds an element matrix into the global matrix.
func scatter(g *mat.SymDense, e int, local []float64) {
	base := e * dof
	for r := 0; r < 2*dof; r++ {
		for c := r; c < 2*dof; c++ {
			v := local[r*2*dof+c]
			if v == 0 {
				continue
			}
			g.SetSym(base+r, base+c, g.At(base+r, base+c)+v)
		}
	}
}

// addPointMass adds a rigid offset mass:
//
//	[ m·I    -m·S(d) ]
//	[ m·S(d)  I_node ]
//
// with S(d)ω = d × ω.
func addPointMass(g *mat.SymDense, pm PointMass) {
	base := pm.Node * dof
	m := pm.Mass
	dx, dy, dz := pm.Offset[0], pm.Offset[1], pm.Offset[2]
	S := [3][3]float64{
		{0, -dz, dy},
		{dz, 0, -dx},
		{-dy, dx, 0},
	}
	I := pm.Inertia.Matrix()
	add := func(r, c int, v float64) {
		if r <= c && v != 0 {
			g.SetSym(base+r, base+c, g.At(base+r, base+c)+v)
		}
	}
	for r := 0; r < 3; r++ {
		add(r, r, m)
		for c := 0; c < 3; c++ {
			add(r, 3+c, -m*S[r][c])
			add(3+r, 3+c, I[r][c])
		}
	}
}

// distribute lumps line loads to consistent nodal forces.
func distribute(in Input, F []float64) {
	p := in.Distributed
	if p.Len() == 0 {
		return
	}
	comps := [3][]float64{p.Px, p.Py, p.Pz}
	for e := 0; e < in.Elements(); e++ {
		L := in.Z[e+1] - in.Z[e]
		for k, c := range comps {
			pa, pb := c[e], c[e+1]
			F[e*dof+k] += L * (2*pa + pb) / 6
			F[(e+1)*dof+k] += L * (pa + 2*pb) / 6
		}
	}
}

func reduce(g *mat.SymDense, free []int) *mat.SymDense {
	r := mat.NewSymDense(len(free), nil)
	for a, i := range free {
		for b := a; b < len(free); b++ {
			r.SetSym(a, b, g.At(i, free[b]))
		}
	}
	return r
}

// frequencies solves K φ = ω² M φ and returns the lowest modes in Hz.
func frequencies(K, M *mat.SymDense, modes int) ([]float64, error) {
	if modes <= 0 {
		modes = DefaultModes
	}
	n, _ := K.Dims()

	var chol mat.Cholesky
	if ok := chol.Factorize(M); !ok {
		return nil, errors.New(errors.ErrCodeSolverFailure, "mass matrix is not positive definite")
	}
	var L, Li mat.TriDense
	chol.LTo(&L)
	if err := Li.InverseTri(&L); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSolverFailure, err, "invert mass factor")
	}
	var tmp, A mat.Dense
	tmp.Mul(&Li, K)
	A.Mul(&tmp, Li.T())

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(A.At(i, j)+A.At(j, i)))
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return nil, errors.New(errors.ErrCodeSolverFailure, "eigen decomposition did not converge")
	}
	vals := eig.Values(nil)

	out := make([]float64, 0, modes)
	for _, v := range vals {
		if len(out) == modes {
			break
		}
		if v < 0 {
			v = 0
		}
		out = append(out, math.Sqrt(v)/(2*math.Pi))
	}
	return out, nil
}

// utilization fills the raw stress and buckling ratios.
func utilization(in Input, out *Output) {
	ne := in.Elements()
	out.Stress = make([]float64, ne)
	out.GlobalBuckling = make([]float64, ne)
	out.ShellBuckling = make([]float64, ne)
	height := in.Z[len(in.Z)-1] - in.Z[0]
	for e := 0; e < ne; e++ {
		d := 0.5 * (in.Diameter[e] + in.Diameter[e+1])
		s := NewTube(d, in.Thickness[e])
		f := out.Forces[e]
		out.Stress[e] = StressUtilization(s, f, in.Material.Yield)
		out.GlobalBuckling[e] = GlobalBuckling(s, f, height, in.Material)
		out.ShellBuckling[e] = ShellBuckling(s, f, in.Z[e+1]-in.Z[e], in.Material)
	}
}
