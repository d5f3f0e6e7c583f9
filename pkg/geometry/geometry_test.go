package geometry

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/pylon/pkg/errors"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func uniform(n int, h, d, t float64) Sections {
	s := Sections{}
	for i := 0; i < n; i++ {
		s.Heights = append(s.Heights, h)
		s.Thicknesses = append(s.Thicknesses, t)
	}
	for i := 0; i <= n; i++ {
		s.Diameters = append(s.Diameters, d)
	}
	return s
}

func TestSectionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Sections
		wantErr bool
	}{
		{"valid", uniform(2, 40, 10, 0.1), false},
		{"empty", Sections{}, true},
		{"short diameters", Sections{Heights: []float64{1, 1}, Diameters: []float64{1, 1}, Thicknesses: []float64{0.1, 0.1}}, true},
		{"long thicknesses", Sections{Heights: []float64{1}, Diameters: []float64{1, 1}, Thicknesses: []float64{0.1, 0.1}}, true},
		{"zero height", Sections{Heights: []float64{0}, Diameters: []float64{1, 1}, Thicknesses: []float64{0.1}}, true},
		{"nan diameter", Sections{Heights: []float64{1}, Diameters: []float64{math.NaN(), 1}, Thicknesses: []float64{0.1}}, true},
		{"solid wall", Sections{Heights: []float64{1}, Diameters: []float64{1, 1}, Thicknesses: []float64{0.6}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeGeometry) {
				t.Errorf("expected geometry error, got %v", err)
			}
		})
	}
}

func TestAdjustFoundationLand(t *testing.T) {
	in := uniform(2, 2, 3, 0.1)
	for _, depth := range []float64{0, 10} {
		out, err := AdjustFoundation(in, Foundation{Elevation: 0, PileDepth: depth})
		if err != nil {
			t.Fatalf("AdjustFoundation: %v", err)
		}
		if !reflect.DeepEqual(out.Sections, in) {
			t.Errorf("depth %v: sections changed: %+v", depth, out.Sections)
		}
		if out.BaseElevation != 0 || out.Embedment != 0 {
			t.Errorf("depth %v: base=%v embedment=%v", depth, out.BaseElevation, out.Embedment)
		}
	}
}

func TestAdjustFoundationDoesNotAlias(t *testing.T) {
	in := uniform(2, 2, 3, 0.1)
	out, err := AdjustFoundation(in, Foundation{})
	if err != nil {
		t.Fatal(err)
	}
	out.Sections.Heights[0] = 99
	if in.Heights[0] != 2 {
		t.Error("land output aliases input heights")
	}
}

func TestAdjustFoundationMonopile(t *testing.T) {
	tests := []struct {
		name     string
		in       Sections
		depth    float64
		heights  []float64
		base     float64
		clamped  bool
		extended bool
	}{
		{
			name:    "split",
			in:      uniform(3, 30, 10, 0.1),
			depth:   15,
			heights: []float64{15, 15, 30, 30},
			base:    -45,
		},
		{
			name:    "split at fractional depth",
			in:      uniform(2, 20, 6, 0.05),
			depth:   7.5,
			heights: []float64{7.5, 12.5, 20},
			base:    -37.5,
		},
		{
			name:     "extend when deeper than first section",
			in:       uniform(2, 2, 3, 0.1),
			depth:    10,
			heights:  []float64{10, 2, 2},
			base:     -40,
			extended: true,
		},
		{
			name:     "extend when equal to first section",
			in:       uniform(2, 30, 10, 0.1),
			depth:    30,
			heights:  []float64{30, 30, 30},
			base:     -60,
			extended: true,
		},
		{
			name:     "extend instead of leaving a sliver",
			in:       uniform(2, 30, 10, 0.1),
			depth:    29.95,
			heights:  []float64{29.95, 30, 30},
			base:     -59.95,
			extended: true,
		},
		{
			name:    "zero depth clamps",
			in:      uniform(2, 2, 3, 0.1),
			depth:   0,
			heights: []float64{0.1, 1.9, 2},
			base:    -30.1,
			clamped: true,
		},
		{
			name:    "negative depth clamps",
			in:      uniform(2, 2, 3, 0.1),
			depth:   -4,
			heights: []float64{0.1, 1.9, 2},
			base:    -30.1,
			clamped: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := AdjustFoundation(tt.in, Foundation{Elevation: -30, PileDepth: tt.depth, Monopile: true})
			if err != nil {
				t.Fatalf("AdjustFoundation: %v", err)
			}
			s := out.Sections
			if s.Len() != tt.in.Len()+1 {
				t.Fatalf("sections = %d, want %d", s.Len(), tt.in.Len()+1)
			}
			for i, h := range tt.heights {
				if !approx(s.Heights[i], h) {
					t.Errorf("heights = %v, want %v", s.Heights, tt.heights)
					break
				}
			}
			if !approx(out.BaseElevation, tt.base) {
				t.Errorf("base = %v, want %v", out.BaseElevation, tt.base)
			}
			if out.Clamped != tt.clamped || out.Extended != tt.extended {
				t.Errorf("clamped=%v extended=%v", out.Clamped, out.Extended)
			}
			if len(s.Diameters) != s.Len()+1 || len(s.Thicknesses) != s.Len() {
				t.Errorf("shape invariant broken: %+v", s)
			}
			if s.Diameters[0] != tt.in.Diameters[0] || s.Diameters[1] != tt.in.Diameters[0] {
				t.Errorf("pile diameters = %v", s.Diameters[:2])
			}
			if s.Thicknesses[0] != tt.in.Thicknesses[0] {
				t.Errorf("pile thickness = %v", s.Thicknesses[0])
			}
			if out.Mudline != -30 {
				t.Errorf("mudline = %v", out.Mudline)
			}
		})
	}
}

func TestAdjustFoundationDegenerate(t *testing.T) {
	tests := []struct {
		name  string
		depth float64
	}{
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AdjustFoundation(uniform(2, 30, 10, 0.1), Foundation{PileDepth: tt.depth, Monopile: true})
			if !errors.Is(err, errors.ErrCodeGeometry) {
				t.Errorf("expected geometry error, got %v", err)
			}
		})
	}
}

func TestDiscretize(t *testing.T) {
	s := Sections{
		Heights:     []float64{15, 30},
		Diameters:   []float64{8, 8, 5},
		Thicknesses: []float64{0.05, 0.03},
	}
	m, err := Discretize(s, -45, MeshOptions{})
	if err != nil {
		t.Fatalf("Discretize: %v", err)
	}
	wantZ := []float64{-45, -40, -35, -30, -20, -10, 0}
	if len(m.Z) != len(wantZ) {
		t.Fatalf("Z = %v, want %v", m.Z, wantZ)
	}
	for i := range wantZ {
		if !approx(m.Z[i], wantZ[i]) {
			t.Errorf("Z[%d] = %v, want %v", i, m.Z[i], wantZ[i])
		}
	}
	wantD := []float64{8, 8, 8, 8, 7, 6, 5}
	for i := range wantD {
		if !approx(m.Diameter[i], wantD[i]) {
			t.Errorf("Diameter[%d] = %v, want %v", i, m.Diameter[i], wantD[i])
		}
	}
	wantT := []float64{0.05, 0.05, 0.05, 0.03, 0.03, 0.03}
	if !reflect.DeepEqual(m.Thickness, wantT) {
		t.Errorf("Thickness = %v, want %v", m.Thickness, wantT)
	}
	if !reflect.DeepEqual(m.Section, []int{0, 0, 0, 1, 1, 1}) {
		t.Errorf("Section = %v", m.Section)
	}
	if m.Nodes() != m.Elements()+1 {
		t.Errorf("nodes=%d elements=%d", m.Nodes(), m.Elements())
	}
	if !approx(m.ElementDiameter(4), 6.5) {
		t.Errorf("ElementDiameter(4) = %v", m.ElementDiameter(4))
	}
}

func TestDiscretizeRespectsMaxElementLength(t *testing.T) {
	s := uniform(2, 40, 6, 0.05)
	m, err := Discretize(s, 0, MeshOptions{MaxElementLength: 4})
	if err != nil {
		t.Fatal(err)
	}
	if m.Elements() != 20 {
		t.Errorf("elements = %d, want 20", m.Elements())
	}
	for i := 0; i < m.Elements(); i++ {
		if m.ElementLength(i) > 4+1e-9 {
			t.Errorf("element %d length %v exceeds limit", i, m.ElementLength(i))
		}
	}
	if m.Top() != 80 {
		t.Errorf("top = %v, want 80", m.Top())
	}
}

func TestHeightConstraint(t *testing.T) {
	tests := []struct {
		name string
		hub  float64
		ref  float64
		z    []float64
		want float64
	}{
		{"land flush", 80, 0, []float64{0, 40, 80}, 0},
		{"monopile", 65, 0, []float64{-45, -30, 45}, 20},
		{"reference offset", 90, 10, []float64{10, 80}, 20},
		{"empty", 50, 0, nil, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HeightConstraint(tt.hub, tt.ref, tt.z); got != tt.want {
				t.Errorf("HeightConstraint() = %v, want %v", got, tt.want)
			}
		})
	}
}
