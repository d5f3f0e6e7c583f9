// Package config reads design files and service settings.
//
// A design file is TOML. Every table maps onto part of
// [pipeline.Options]; unknown keys are rejected so that a typo never
// silently falls back to a default. Run "pylon example" for a complete,
// commented template.
package config

import (
	"bytes"
	_ "embed"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pylon/pkg/assembly"
	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/frame"
	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/loads"
	"github.com/matzehuels/pylon/pkg/margin"
	"github.com/matzehuels/pylon/pkg/pipeline"
	"github.com/matzehuels/pylon/pkg/soil"
)

//go:embed example.toml
var example string

// Example returns the annotated example design.
func Example() string { return example }

// Design is the TOML form of an analysis.
type Design struct {
	Name      string  `toml:"name"`
	HubHeight float64 `toml:"hub_height"`
	// HubReference is the datum HubHeight is measured from.
	HubReference float64 `toml:"hub_reference,omitempty"`

	Tower      geometry.Sections    `toml:"tower"`
	Foundation Foundation           `toml:"foundation"`
	Mesh       geometry.MeshOptions `toml:"mesh,omitempty"`
	Material   frame.Material       `toml:"material,omitempty"`
	Cost       Cost                 `toml:"cost,omitempty"`
	Soil       soil.Model           `toml:"soil,omitempty"`
	RNA        assembly.PointMass   `toml:"rna"`
	Masses     Masses               `toml:"masses,omitempty"`
	Wind       Wind                 `toml:"wind,omitempty"`
	Wave       Wave                 `toml:"wave,omitempty"`
	Safety     margin.SafetyFactors `toml:"safety,omitempty"`
	Limits     margin.Limits        `toml:"limits,omitempty"`
	Analysis   Analysis             `toml:"analysis,omitempty"`
	LoadCases  []LoadCase           `toml:"load_case"`
}

// Foundation is the [foundation] table.
type Foundation struct {
	Elevation           float64 `toml:"elevation"`
	PileDepth           float64 `toml:"pile_depth,omitempty"`
	Monopile            bool    `toml:"monopile"`
	TransitionElevation float64 `toml:"transition_elevation,omitempty"`
}

// Cost is the [cost] table.
type Cost struct {
	OutfittingFactor float64 `toml:"outfitting_factor,omitempty"`
	MaterialRate     float64 `toml:"material_rate,omitempty"`
	PaintingRate     float64 `toml:"painting_rate,omitempty"`
}

// Masses is the [masses] table.
type Masses struct {
	TransitionPiece   float64 `toml:"transition_piece,omitempty"`
	GravityFoundation float64 `toml:"gravity_foundation,omitempty"`
}

// Wind is the [wind] table.
type Wind struct {
	Model     string      `toml:"model,omitempty"`
	Zref      float64     `toml:"zref,omitempty"`
	Z0        float64     `toml:"z0,omitempty"`
	Shear     float64     `toml:"shear,omitempty"`
	Roughness float64     `toml:"roughness,omitempty"`
	Cd        float64     `toml:"cd,omitempty"`
	Air       loads.Fluid `toml:"air,omitempty"`
}

// Wave is the [wave] table.
type Wave struct {
	Depth float64     `toml:"depth,omitempty"`
	Cd    float64     `toml:"cd,omitempty"`
	Cm    float64     `toml:"cm,omitempty"`
	Water loads.Fluid `toml:"water,omitempty"`
}

// Analysis is the [analysis] table.
type Analysis struct {
	DisableGravity bool `toml:"disable_gravity,omitempty"`
	Modes          int  `toml:"modes,omitempty"`
	NumLoadCases   int  `toml:"num_load_cases,omitempty"`
	Parallel       bool `toml:"parallel,omitempty"`
}

// LoadCase is one [[load_case]] entry.
type LoadCase struct {
	Name        string       `toml:"name"`
	WindSpeed   float64      `toml:"wind_speed"`
	WindHeading float64      `toml:"wind_heading,omitempty"`
	Force       inertia.Vec3 `toml:"force"`
	Moment      inertia.Vec3 `toml:"moment"`
	WaveHeight  float64      `toml:"wave_height,omitempty"`
	WavePeriod  float64      `toml:"wave_period,omitempty"`
}

// Load reads a design file.
func Load(path string) (Design, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Design{}, errors.Wrap(errors.ErrCodeNotFound, err, "design file %s not found", path)
		}
		return Design{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open design file")
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a design from r.
func Decode(r io.Reader) (Design, error) {
	var d Design
	md, err := toml.NewDecoder(r).Decode(&d)
	if err != nil {
		return Design{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse design")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Design{}, errors.New(errors.ErrCodeConfiguration, "unknown design keys: %s", strings.Join(keys, ", "))
	}
	return d, nil
}

// Encode writes d as TOML.
func Encode(w io.Writer, d Design) error {
	return toml.NewEncoder(w).Encode(d)
}

// String returns d as TOML.
func (d Design) String() string {
	var buf bytes.Buffer
	_ = Encode(&buf, d)
	return buf.String()
}

// Options converts the design to pipeline options. Defaults are applied by
// the pipeline, not here.
func (d Design) Options() pipeline.Options {
	o := pipeline.Options{
		Name:     d.Name,
		Sections: d.Tower.Clone(),
		Foundation: geometry.Foundation{
			Elevation: d.Foundation.Elevation,
			PileDepth: d.Foundation.PileDepth,
			Monopile:  d.Foundation.Monopile,
		},
		TransitionElevation:   d.Foundation.TransitionElevation,
		HubHeight:             d.HubHeight,
		HubReference:          d.HubReference,
		Mesh:                  d.Mesh,
		Material:              d.Material,
		OutfittingFactor:      d.Cost.OutfittingFactor,
		MaterialCostRate:      d.Cost.MaterialRate,
		PaintingCostRate:      d.Cost.PaintingRate,
		Soil:                  d.Soil,
		RNA:                   d.RNA,
		TransitionPieceMass:   d.Masses.TransitionPiece,
		GravityFoundationMass: d.Masses.GravityFoundation,
		Wind: pipeline.WindOptions{
			Model:     d.Wind.Model,
			Zref:      d.Wind.Zref,
			Z0:        d.Wind.Z0,
			Shear:     d.Wind.Shear,
			Roughness: d.Wind.Roughness,
			Cd:        d.Wind.Cd,
			Air:       d.Wind.Air,
		},
		Wave: pipeline.WaveOptions{
			Depth: d.Wave.Depth,
			Cd:    d.Wave.Cd,
			Cm:    d.Wave.Cm,
			Water: d.Wave.Water,
		},
		NumLoadCases:   d.Analysis.NumLoadCases,
		SafetyFactors:  d.Safety,
		Limits:         d.Limits,
		DisableGravity: d.Analysis.DisableGravity,
		Modes:          d.Analysis.Modes,
		Parallel:       d.Analysis.Parallel,
	}
	for _, lc := range d.LoadCases {
		o.LoadCases = append(o.LoadCases, pipeline.LoadCase(lc))
	}
	return o
}
