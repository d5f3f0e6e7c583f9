// Package margin turns raw structural utilisations into factored margins and
// reduces them over load cases.
//
// A margin below 1.0 is compliant. Margins are reported, never raised: the
// caller decides what to do with a value above 1.0.
package margin

import (
	"math"

	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/frame"
)

// SafetyFactors are the partial factors applied to raw utilisations.
type SafetyFactors struct {
	Load        float64 `json:"gamma_f" toml:"gamma_f"`
	Material    float64 `json:"gamma_m" toml:"gamma_m"`
	Consequence float64 `json:"gamma_n" toml:"gamma_n"`
	Buckling    float64 `json:"gamma_b" toml:"gamma_b"`
}

// DefaultSafetyFactors follow common offshore practice.
var DefaultSafetyFactors = SafetyFactors{Load: 1.35, Material: 1.3, Consequence: 1.0, Buckling: 1.1}

// SetDefaults fills zero factors from DefaultSafetyFactors.
func (f *SafetyFactors) SetDefaults() {
	if f.Load == 0 {
		f.Load = DefaultSafetyFactors.Load
	}
	if f.Material == 0 {
		f.Material = DefaultSafetyFactors.Material
	}
	if f.Consequence == 0 {
		f.Consequence = DefaultSafetyFactors.Consequence
	}
	if f.Buckling == 0 {
		f.Buckling = DefaultSafetyFactors.Buckling
	}
}

// Validate rejects non-positive factors.
func (f SafetyFactors) Validate() error {
	if err := errors.ValidatePositive("safety factors", f.Load, f.Material, f.Consequence, f.Buckling); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid safety factors")
	}
	return nil
}

// Stress is the factor applied to the stress utilisation.
func (f SafetyFactors) Stress() float64 { return f.Load * f.Material * f.Consequence }

// Stability is the factor applied to both buckling utilisations.
func (f SafetyFactors) Stability() float64 { return f.Load * f.Buckling }

// CaseMargins are the factored results of one load case.
type CaseMargins struct {
	Name           string    `json:"name"`
	Stress         []float64 `json:"stress"`
	GlobalBuckling []float64 `json:"global_buckling"`
	ShellBuckling  []float64 `json:"shell_buckling"`
	TopDeflection  float64   `json:"top_deflection"`
	Frequency      float64   `json:"frequency"`
}

// Evaluate factors the raw utilisations of one solver output.
func Evaluate(name string, out frame.Output, f SafetyFactors) CaseMargins {
	return CaseMargins{
		Name:           name,
		Stress:         scaled(out.Stress, f.Stress()),
		GlobalBuckling: scaled(out.GlobalBuckling, f.Stability()),
		ShellBuckling:  scaled(out.ShellBuckling, f.Stability()),
		TopDeflection:  out.TopDeflection,
		Frequency:      out.FirstFrequency(),
	}
}

// Max returns the largest margin of the case over all checks.
func (c CaseMargins) Max() float64 {
	m := math.Inf(-1)
	for _, v := range [][]float64{c.Stress, c.GlobalBuckling, c.ShellBuckling} {
		for _, x := range v {
			m = math.Max(m, x)
		}
	}
	return m
}

func scaled(v []float64, k float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = k * x
	}
	return out
}

// Governing records, per element, the index of the load case that produced
// the reported margin.
type Governing struct {
	Stress         []int `json:"stress"`
	GlobalBuckling []int `json:"global_buckling"`
	ShellBuckling  []int `json:"shell_buckling"`
}

// Report is the envelope over all load cases.
type Report struct {
	Cases          int       `json:"cases"`
	Stress         []float64 `json:"stress"`
	GlobalBuckling []float64 `json:"global_buckling"`
	ShellBuckling  []float64 `json:"shell_buckling"`
	// TopDeflection is the largest top deflection over all cases.
	TopDeflection float64 `json:"top_deflection"`
	// Frequency is the lowest first natural frequency over all cases.
	Frequency float64   `json:"frequency"`
	Governing Governing `json:"governing"`
}

// Compliant reports whether every aggregated margin is below 1.0.
func (r Report) Compliant() bool {
	for _, v := range [][]float64{r.Stress, r.GlobalBuckling, r.ShellBuckling} {
		for _, x := range v {
			if x >= 1 {
				return false
			}
		}
	}
	return true
}

// Aggregate reduces the per-case margins to their element-wise maximum.
// The result depends only on the set of cases, not on their order, except
// that ties are credited to the earliest case.
func Aggregate(cases []CaseMargins) (Report, error) {
	if len(cases) == 0 {
		return Report{}, errors.New(errors.ErrCodeConfiguration, "no load cases to aggregate")
	}
	n := len(cases[0].Stress)
	for _, c := range cases {
		if len(c.Stress) != n || len(c.GlobalBuckling) != n || len(c.ShellBuckling) != n {
			return Report{}, errors.New(errors.ErrCodeConfiguration,
				"load case %q has a different element count than %q", c.Name, cases[0].Name)
		}
	}

	r := Report{
		Cases:         len(cases),
		TopDeflection: math.Inf(-1),
		Frequency:     math.Inf(1),
	}
	r.Stress, r.Governing.Stress = envelope(cases, func(c CaseMargins) []float64 { return c.Stress })
	r.GlobalBuckling, r.Governing.GlobalBuckling = envelope(cases, func(c CaseMargins) []float64 { return c.GlobalBuckling })
	r.ShellBuckling, r.Governing.ShellBuckling = envelope(cases, func(c CaseMargins) []float64 { return c.ShellBuckling })
	for _, c := range cases {
		r.TopDeflection = math.Max(r.TopDeflection, c.TopDeflection)
		r.Frequency = math.Min(r.Frequency, c.Frequency)
	}
	return r, nil
}

func envelope(cases []CaseMargins, pick func(CaseMargins) []float64) ([]float64, []int) {
	first := pick(cases[0])
	val := append([]float64(nil), first...)
	gov := make([]int, len(first))
	for k, c := range cases[1:] {
		for i, x := range pick(c) {
			if x > val[i] {
				val[i] = x
				gov[i] = k + 1
			}
		}
	}
	return val, gov
}
