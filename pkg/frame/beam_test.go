package frame

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/loads"
	"github.com/matzehuels/pylon/pkg/soil"
)

func relClose(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(math.Abs(a), math.Abs(b))
}

// column builds a uniform vertical cantilever of n elements.
func column(n int, length, d, t float64) Input {
	in := Input{Material: Steel}
	for i := 0; i <= n; i++ {
		in.Z = append(in.Z, length*float64(i)/float64(n))
		in.Diameter = append(in.Diameter, d)
	}
	for i := 0; i < n; i++ {
		in.Thickness = append(in.Thickness, t)
	}
	in.Supports = []Support{{Node: 0, K: soil.Uniform(RigidStiffness)}}
	return in
}

func TestCantileverTipLoad(t *testing.T) {
	const (
		L = 80.0
		P = 1e5
	)
	in := column(10, L, 6, 0.03)
	in.Loads = []PointLoad{{Node: 10, Force: inertia.Vec3{P, 0, 0}}}

	out, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	EI := Steel.E * NewTube(6, 0.03).I
	want := P * L * L * L / (3 * EI)
	if !relClose(out.TopDeflection, want, 1e-6) {
		t.Errorf("TopDeflection = %v, want %v", out.TopDeflection, want)
	}
	if tip := out.Displacements[10]; tip[4] <= 0 {
		t.Errorf("θy at tip = %v, want positive for +x load", tip[4])
	}

	base := out.Forces[0]
	if !relClose(base.Force[0], P, 1e-9) {
		t.Errorf("base shear = %v, want %v", base.Force[0], P)
	}
	if !relClose(base.Moment[1], P*L, 1e-9) {
		t.Errorf("base moment = %v, want %v", base.Moment[1], P*L)
	}
	if !relClose(out.BaseForce[0], -P, 1e-12) || !relClose(out.BaseMoment[1], -P*L, 1e-12) {
		t.Errorf("reactions = %v / %v", out.BaseForce, out.BaseMoment)
	}
	if out.Stress[0] <= out.Stress[9] {
		t.Errorf("stress should peak at the base: %v", out.Stress)
	}
}

func TestCantileverLoadDirectionSymmetry(t *testing.T) {
	in := column(8, 60, 5, 0.025)
	in.Loads = []PointLoad{{Node: 8, Force: inertia.Vec3{0, 2e4, 0}}}
	outY, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	in.Loads = []PointLoad{{Node: 8, Force: inertia.Vec3{2e4, 0, 0}}}
	outX, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	tipY := outY.Displacements[8]
	if tipY[1] <= 0 || tipY[3] >= 0 {
		t.Errorf("+y load: uy=%v θx=%v, want uy>0 and θx<0", tipY[1], tipY[3])
	}
	if !relClose(outX.TopDeflection, outY.TopDeflection, 1e-9) {
		t.Errorf("x and y deflections differ: %v vs %v", outX.TopDeflection, outY.TopDeflection)
	}
	if !relClose(outY.Forces[0].Moment[0], -2e4*60, 1e-9) {
		t.Errorf("Mx at base = %v, want %v", outY.Forces[0].Moment[0], -2e4*60)
	}
}

func TestCantileverFirstFrequency(t *testing.T) {
	const L = 80.0
	in := column(20, L, 6, 0.03)
	in.Modes = 2
	out, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	s := NewTube(6, 0.03)
	mbar := Steel.Density * s.A
	beta := 1.8751040687
	want := beta * beta / (2 * math.Pi) * math.Sqrt(Steel.E*s.I/(mbar*L*L*L*L))
	if len(out.Frequencies) != 2 {
		t.Fatalf("Frequencies = %v", out.Frequencies)
	}
	if !relClose(out.FirstFrequency(), want, 5e-3) {
		t.Errorf("f1 = %v, want %v", out.FirstFrequency(), want)
	}
	// the two bending planes coincide for a round tube
	if !relClose(out.Frequencies[0], out.Frequencies[1], 1e-6) {
		t.Errorf("bending pair split: %v", out.Frequencies)
	}
}

func TestTopMassLowersFrequency(t *testing.T) {
	in := column(10, 80, 6, 0.03)
	bare, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	in.Masses = []PointMass{{Node: 10, Mass: 2e5, Inertia: inertia.Tensor{1e5, 1e5, 2e5}}}
	loaded, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.FirstFrequency() >= bare.FirstFrequency() {
		t.Errorf("top mass should lower f1: %v >= %v", loaded.FirstFrequency(), bare.FirstFrequency())
	}
}

func TestGravityReactions(t *testing.T) {
	in := column(4, 40, 4, 0.02)
	in.Gravity = true
	in.ElementMass = []float64{1e3, 1e3, 1e3, 1e3}
	offset := inertia.Vec3{2, 0, 0}
	in.Masses = []PointMass{{Node: 4, Mass: 5e3, Inertia: inertia.Translate(inertia.Tensor{}, 5e3, offset), Offset: offset}}
	out, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	g := loads.Gravity
	if !relClose(out.BaseForce[2], 9e3*g, 1e-12) {
		t.Errorf("vertical reaction = %v, want %v", out.BaseForce[2], 9e3*g)
	}
	if !relClose(out.BaseMoment[1], -2*5e3*g, 1e-12) {
		t.Errorf("overturning reaction = %v, want %v", out.BaseMoment[1], -2*5e3*g)
	}
	// element 0 carries everything except half of its own weight
	if !relClose(out.Forces[0].Axial(), -(9e3-500)*g, 1e-9) {
		t.Errorf("axial force = %v, want %v", out.Forces[0].Axial(), -(9e3-500)*g)
	}
}

func TestSoilSpringsApproachRigid(t *testing.T) {
	in := column(6, 50, 5, 0.03)
	in.Loads = []PointLoad{{Node: 6, Force: inertia.Vec3{1e4, 0, 0}}}
	rigid, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	in.Supports = []Support{{Node: 0, K: soil.Uniform(1e15)}}
	stiff, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !relClose(stiff.TopDeflection, rigid.TopDeflection, 1e-4) {
		t.Errorf("stiff springs %v vs rigid %v", stiff.TopDeflection, rigid.TopDeflection)
	}
	in.Supports = []Support{{Node: 0, K: soil.Uniform(1e8)}}
	soft, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if soft.TopDeflection <= rigid.TopDeflection {
		t.Errorf("soft springs should deflect more: %v <= %v", soft.TopDeflection, rigid.TopDeflection)
	}
}

func TestDistributedLoad(t *testing.T) {
	const (
		L = 30.0
		q = 2e3
	)
	in := column(6, L, 4, 0.03)
	in.Distributed = loads.Zero(7)
	for i := range in.Distributed.Px {
		in.Distributed.Px[i] = q
	}
	out, err := BeamSolver{}.Solve(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if !relClose(out.BaseForce[0], -q*L, 1e-12) {
		t.Errorf("base shear = %v, want %v", out.BaseForce[0], -q*L)
	}
	if !relClose(out.BaseMoment[1], -q*L*L/2, 1e-12) {
		t.Errorf("base moment = %v, want %v", out.BaseMoment[1], -q*L*L/2)
	}
	EI := Steel.E * NewTube(4, 0.03).I
	if !relClose(out.TopDeflection, q*L*L*L*L/(8*EI), 0.02) {
		t.Errorf("tip deflection = %v, want about %v", out.TopDeflection, q*L*L*L*L/(8*EI))
	}
}

func TestSolveFailures(t *testing.T) {
	free := column(3, 10, 2, 0.02)
	free.Supports = []Support{{Node: 0}}
	free.Loads = []PointLoad{{Node: 3, Force: inertia.Vec3{1, 0, 0}}}

	bad := column(3, 10, 2, 0.02)
	bad.Thickness = bad.Thickness[:2]

	noSupport := column(3, 10, 2, 0.02)
	noSupport.Supports = nil

	bareOffset := column(3, 10, 2, 0.02)
	bareOffset.Masses = []PointMass{{Node: 3, Mass: 5e3, Offset: inertia.Vec3{2, 0, 0}}}

	negative := column(3, 10, 2, 0.02)
	negative.Masses = []PointMass{{Node: 3, Mass: -1}}

	tests := []struct {
		name string
		in   Input
		code errors.Code
	}{
		{"unsupported structure", free, errors.ErrCodeSolverFailure},
		{"shape mismatch", bad, errors.ErrCodeGeometry},
		{"no supports", noSupport, errors.ErrCodeConfiguration},
		{"offset not in node inertia", bareOffset, errors.ErrCodeConfiguration},
		{"negative point mass", negative, errors.ErrCodeConfiguration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BeamSolver{}.Solve(context.Background(), tt.in)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestPointMassInertiaCoversOffset(t *testing.T) {
	offset := inertia.Vec3{2, -1, 3}
	tests := []struct {
		name    string
		inertia inertia.Tensor
		ok      bool
	}{
		{"offset term only", inertia.Translate(inertia.Tensor{}, 5e3, offset), true},
		{"ring moved to node", inertia.Translate(inertia.Ring(5e3, 2), 5e3, offset), true},
		{"about own centre", inertia.Ring(5e3, 2), false},
		{"zero", inertia.Tensor{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PointMass{Node: 1, Mass: 5e3, Inertia: tt.inertia, Offset: offset}.validate()
			if tt.ok && err != nil {
				t.Errorf("validate: %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("error = %v, want %s", err, errors.ErrCodeConfiguration)
			}
		})
	}
}

func TestSolveHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (BeamSolver{}).Solve(ctx, column(2, 10, 2, 0.02)); err != context.Canceled {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
