package loads

import (
	"math"
	"testing"

	"github.com/matzehuels/pylon/pkg/errors"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestPowerWindSpeed(t *testing.T) {
	w := PowerWind{Uref: 15, Zref: 80, Z0: 0, Shear: 0.2}
	tests := []struct {
		z    float64
		want float64
	}{
		{-10, 0},
		{0, 0},
		{80, 15},
		{40, 15 * math.Pow(0.5, 0.2)},
	}
	for _, tt := range tests {
		if got := w.Speed(tt.z); !approx(got, tt.want, 1e-12) {
			t.Errorf("Speed(%v) = %v, want %v", tt.z, got, tt.want)
		}
	}
}

func TestLogWindSpeed(t *testing.T) {
	w := LogWind{Uref: 10, Zref: 90, Z0: 0, Roughness: 0.01}
	if got := w.Speed(90); !approx(got, 10, 1e-12) {
		t.Errorf("Speed(zref) = %v, want 10", got)
	}
	if got := w.Speed(0.005); got != 0 {
		t.Errorf("Speed below roughness = %v, want 0", got)
	}
	if w.Speed(30) >= w.Speed(60) {
		t.Error("log profile should increase with height")
	}
}

func TestWindDragUserCd(t *testing.T) {
	w := PowerWind{Uref: 10, Zref: 10, Shear: 0, Air: Fluid{Density: 1.2}, Cd: 0.6}
	z := []float64{-5, 5, 10}
	d := []float64{4, 4, 4}
	got, err := w.Distributed(z, d)
	if err != nil {
		t.Fatal(err)
	}
	want := 0.5 * 1.2 * 100 * 0.6 * 4
	if got.Px[0] != 0 {
		t.Errorf("load below z0 = %v", got.Px[0])
	}
	for i := 1; i < 3; i++ {
		if !approx(got.Px[i], want, 1e-12) || got.Py[i] != 0 || got.Pz[i] != 0 {
			t.Errorf("node %d load = (%v, %v, %v), want (%v, 0, 0)", i, got.Px[i], got.Py[i], got.Pz[i], want)
		}
	}
}

func TestWindHeading(t *testing.T) {
	w := PowerWind{Uref: 10, Zref: 10, Air: Air, Cd: 1, Heading: 90}
	got, err := w.Distributed([]float64{10}, []float64{3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got.Px[0]) > 1e-9*got.Py[0] || got.Py[0] <= 0 {
		t.Errorf("heading 90 should load +y only, got (%v, %v)", got.Px[0], got.Py[0])
	}
}

func TestWindRejectsBadProfile(t *testing.T) {
	_, err := PowerWind{Uref: 10, Zref: 0, Z0: 0}.Distributed([]float64{1}, []float64{1})
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
	_, err = PowerWind{Uref: 10, Zref: 10}.Distributed([]float64{1, 2}, []float64{1})
	if !errors.Is(err, errors.ErrCodeGeometry) {
		t.Errorf("expected geometry error, got %v", err)
	}
}

func TestCylinderDrag(t *testing.T) {
	if got := CylinderDrag(1e4); !approx(got, 1.15, 1e-12) {
		t.Errorf("Cd(1e4) = %v", got)
	}
	if got := CylinderDrag(1e9); got != 0.7 {
		t.Errorf("Cd beyond table = %v, want 0.7", got)
	}
	// drag crisis
	if CylinderDrag(5e5) >= CylinderDrag(1e5) {
		t.Error("Cd should drop through the critical regime")
	}
}

func TestWaveNumberLimits(t *testing.T) {
	omega := 2 * math.Pi / 8
	deep := WaveNumber(omega, 1e4)
	if !approx(deep, omega*omega/Gravity, 1e-9) {
		t.Errorf("deep water k = %v, want %v", deep, omega*omega/Gravity)
	}
	shallow := WaveNumber(omega, 1)
	if !approx(shallow, omega/math.Sqrt(Gravity), 0.05) {
		t.Errorf("shallow water k = %v, want about %v", shallow, omega/math.Sqrt(Gravity))
	}
	k := WaveNumber(omega, 30)
	if res := Gravity*k*math.Tanh(k*30) - omega*omega; math.Abs(res) > 1e-10 {
		t.Errorf("dispersion residual = %v", res)
	}
}

func TestLinearWave(t *testing.T) {
	w := LinearWave{Height: 4, Period: 10, Depth: 30, Cd: 1}
	z := []float64{-40, -30, -15, 0, 10}
	d := []float64{6, 6, 6, 6, 6}
	got, err := w.Distributed(z, d)
	if err != nil {
		t.Fatal(err)
	}
	if got.Px[0] != 0 || got.Px[4] != 0 {
		t.Errorf("loads outside the water column: %v", got.Px)
	}
	if !(got.Px[3] > got.Px[2] && got.Px[2] > got.Px[1] && got.Px[1] > 0) {
		t.Errorf("wave load should decay with depth: %v", got.Px)
	}
}

func TestLinearWaveCalm(t *testing.T) {
	got, err := LinearWave{}.Distributed([]float64{-1, 0}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range got.Px {
		if p != 0 {
			t.Errorf("calm sea load = %v", p)
		}
	}
}

func TestCombine(t *testing.T) {
	wind := PowerWind{Uref: 10, Zref: 10, Cd: 1}
	wave := LinearWave{Height: 2, Period: 8, Depth: 20, Cd: 1}
	z := []float64{-10, 5, 10}
	d := []float64{5, 5, 5}
	a, _ := wind.Distributed(z, d)
	b, _ := wave.Distributed(z, d)
	sum, err := Combine(wind, wave, nil).Distributed(z, d)
	if err != nil {
		t.Fatal(err)
	}
	for i := range z {
		if !approx(sum.Px[i], a.Px[i]+b.Px[i], 1e-12) {
			t.Errorf("node %d combined = %v, want %v", i, sum.Px[i], a.Px[i]+b.Px[i])
		}
	}
}
