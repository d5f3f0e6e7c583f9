// Package pipeline runs a complete tower analysis.
//
// The pipeline has five stages. The first three run once per analysis, the
// last two once per load case:
//
//  1. Foundation: reconcile the pile depth with the lowest section
//  2. Discretize: refine the sections into a beam mesh
//  3. Mass: distributed and point mass budget, cost, centre of mass
//  4. Assembly: supports, point masses and loads for the frame solver
//  5. Margins: factored utilisations, reduced over load cases
//
// The section-properties engine and the frame solver are interfaces so that
// callers can plug in their own. A [Runner] wires in the built-in ones and a
// cache for solver results:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Aggregate.Stress)
package pipeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/pylon/pkg/assembly"
	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/frame"
	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/inertia"
	"github.com/matzehuels/pylon/pkg/loads"
	"github.com/matzehuels/pylon/pkg/margin"
	"github.com/matzehuels/pylon/pkg/mass"
	"github.com/matzehuels/pylon/pkg/shell"
	"github.com/matzehuels/pylon/pkg/soil"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutfittingFactor leaves the shell mass as computed.
	DefaultOutfittingFactor = 1.0

	// DefaultShear is the power-law wind shear exponent.
	DefaultShear = 0.2

	// DefaultRoughness is the log-law roughness length in metres.
	DefaultRoughness = 0.01
)

// Wind profile models.
const (
	WindPower = "power"
	WindLog   = "log"
)

// ValidWindModels is the set of supported wind profiles.
var ValidWindModels = map[string]bool{
	WindPower: true,
	WindLog:   true,
}

// DefaultSoil is a dense sand.
var DefaultSoil = soil.Model{ShearModulus: 140e6, Poisson: 0.4}

// =============================================================================
// Options - Analysis Configuration
// =============================================================================

// Options describes one analysis. It serialises to JSON for the API and is
// decoded from TOML design files by package config.
type Options struct {
	Name string `json:"name,omitempty"`

	Sections   geometry.Sections   `json:"sections"`
	Foundation geometry.Foundation `json:"foundation"`
	// TransitionElevation is where the tower meets the monopile. Ignored for
	// land towers.
	TransitionElevation float64 `json:"transition_elevation"`
	// HubHeight is the hub elevation above HubReference. Zero means the hub
	// sits at the tower top.
	HubHeight    float64              `json:"hub_height"`
	HubReference float64              `json:"hub_reference,omitempty"`
	Mesh         geometry.MeshOptions `json:"mesh,omitzero"`

	Material         frame.Material `json:"material,omitzero"`
	OutfittingFactor float64        `json:"outfitting_factor,omitempty"`
	MaterialCostRate float64        `json:"material_cost_rate,omitempty"`
	PaintingCostRate float64        `json:"painting_cost_rate,omitempty"`
	Soil             soil.Model     `json:"soil,omitzero"`

	RNA                   assembly.PointMass `json:"rna"`
	TransitionPieceMass   float64            `json:"transition_piece_mass,omitempty"`
	GravityFoundationMass float64            `json:"gravity_foundation_mass,omitempty"`

	Wind WindOptions `json:"wind,omitzero"`
	Wave WaveOptions `json:"wave,omitzero"`

	LoadCases []LoadCase `json:"load_cases"`
	// NumLoadCases, when set, must match len(LoadCases).
	NumLoadCases int `json:"num_load_cases,omitempty"`

	SafetyFactors margin.SafetyFactors `json:"safety_factors,omitzero"`
	Limits        margin.Limits        `json:"limits,omitzero"`

	DisableGravity bool `json:"disable_gravity,omitempty"`
	Modes          int  `json:"modes,omitempty"`

	// Runtime options (not part of the analysis identity)
	Parallel bool `json:"-"`
	Refresh  bool `json:"-"`

	validated bool
}

// WindOptions configure the wind profile shared by all load cases. The
// reference speed comes from each LoadCase.
type WindOptions struct {
	Model string `json:"model,omitempty"`
	// Zref is the reference height; zero means the hub height.
	Zref      float64     `json:"zref,omitempty"`
	Z0        float64     `json:"z0,omitempty"`
	Shear     float64     `json:"shear,omitempty"`
	Roughness float64     `json:"roughness,omitempty"`
	Cd        float64     `json:"cd,omitempty"`
	Air       loads.Fluid `json:"air,omitzero"`
}

// WaveOptions configure wave loading on monopiles.
type WaveOptions struct {
	// Depth is the water depth; zero means the depth of the mudline below 0.
	Depth float64     `json:"depth,omitempty"`
	Cd    float64     `json:"cd,omitempty"`
	Cm    float64     `json:"cm,omitempty"`
	Water loads.Fluid `json:"water,omitzero"`
}

// LoadCase is one environmental and rotor load combination.
type LoadCase struct {
	Name        string  `json:"name"`
	WindSpeed   float64 `json:"wind_speed"`
	WindHeading float64 `json:"wind_heading,omitempty"`
	// Force and Moment are the rotor loads at the tower top.
	Force      inertia.Vec3 `json:"force"`
	Moment     inertia.Vec3 `json:"moment"`
	WaveHeight float64      `json:"wave_height,omitempty"`
	WavePeriod float64      `json:"wave_period,omitempty"`
}

// =============================================================================
// Result
// =============================================================================

// Result holds every intermediate and final output of one analysis.
type Result struct {
	Name             string             `json:"name,omitempty"`
	Geometry         geometry.Adjusted  `json:"geometry"`
	Mesh             geometry.Mesh      `json:"mesh"`
	HeightConstraint float64            `json:"height_constraint"`
	Properties       shell.Properties   `json:"properties"`
	Mass             mass.Summary       `json:"mass"`
	SoilStiffness    soil.Stiffness     `json:"soil_stiffness,omitzero"`
	Constraints      margin.Constraints `json:"constraints"`
	Cases            []CaseResult       `json:"cases"`
	Aggregate        *margin.Report     `json:"aggregate,omitempty"`
	Stats            Stats              `json:"-"`
}

// CaseResult is the outcome of one load case. Exactly one of Margins and
// Error is set.
type CaseResult struct {
	Name        string              `json:"name"`
	Assembly    assembly.Output     `json:"assembly"`
	Distributed loads.Distributed   `json:"distributed"`
	Output      *frame.Output       `json:"output,omitempty"`
	Margins     *margin.CaseMargins `json:"margins,omitempty"`
	Error       string              `json:"error,omitempty"`
	CacheHit    bool                `json:"-"`
	err         error
}

// Err returns the load case failure, if any.
func (c CaseResult) Err() error { return c.err }

// Stats contains execution timings.
type Stats struct {
	Nodes          int
	Elements       int
	FoundationTime time.Duration
	DiscretizeTime time.Duration
	MassTime       time.Duration
	CasesTime      time.Duration
	CacheHits      int
}

// Summary is a compact digest of a result.
type Summary struct {
	Name              string  `json:"name,omitempty" bson:"name,omitempty"`
	TowerMass         float64 `json:"tower_mass" bson:"tower_mass"`
	MonopileMass      float64 `json:"monopile_mass" bson:"monopile_mass"`
	TotalCost         float64 `json:"total_cost" bson:"total_cost"`
	HeightConstraint  float64 `json:"height_constraint" bson:"height_constraint"`
	Frequency         float64 `json:"frequency" bson:"frequency"`
	TopDeflection     float64 `json:"top_deflection" bson:"top_deflection"`
	MaxStress         float64 `json:"max_stress" bson:"max_stress"`
	MaxGlobalBuckling float64 `json:"max_global_buckling" bson:"max_global_buckling"`
	MaxShellBuckling  float64 `json:"max_shell_buckling" bson:"max_shell_buckling"`
	Compliant         bool    `json:"compliant" bson:"compliant"`
	Cases             int     `json:"cases" bson:"cases"`
	Failed            int     `json:"failed,omitempty" bson:"failed,omitempty"`
}

// Summary digests the result.
func (r *Result) Summary() Summary {
	s := Summary{
		Name:             r.Name,
		TowerMass:        r.Mass.TowerMass,
		MonopileMass:     r.Mass.MonopileTotalMass,
		TotalCost:        r.Mass.TowerCost + r.Mass.MonopileCost,
		HeightConstraint: r.HeightConstraint,
		Cases:            len(r.Cases),
	}
	for _, c := range r.Cases {
		if c.Error != "" {
			s.Failed++
		}
	}
	if a := r.Aggregate; a != nil {
		s.Frequency = a.Frequency
		s.TopDeflection = a.TopDeflection
		s.MaxStress = maxOf(a.Stress)
		s.MaxGlobalBuckling = maxOf(a.GlobalBuckling)
		s.MaxShellBuckling = maxOf(a.ShellBuckling)
		s.Compliant = a.Compliant()
	}
	return s
}

func maxOf(v []float64) float64 {
	m := 0.0
	for _, x := range v {
		if x > m {
			m = x
		}
	}
	return m
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills defaults. Calling it
// again is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills every zero-valued option that has a default.
func (o *Options) SetDefaults() {
	o.Mesh.SetDefaults()
	if o.Material == (frame.Material{}) {
		o.Material = frame.Steel
	}
	if o.OutfittingFactor == 0 {
		o.OutfittingFactor = DefaultOutfittingFactor
	}
	if o.Foundation.Monopile && o.Soil == (soil.Model{}) {
		o.Soil = DefaultSoil
	}
	if o.Wind.Model == "" {
		o.Wind.Model = WindPower
	}
	if o.Wind.Shear == 0 {
		o.Wind.Shear = DefaultShear
	}
	if o.Wind.Roughness == 0 {
		o.Wind.Roughness = DefaultRoughness
	}
	if o.Wind.Air == (loads.Fluid{}) {
		o.Wind.Air = loads.Air
	}
	if o.Wave.Water == (loads.Fluid{}) {
		o.Wave.Water = loads.Water
	}
	if o.Modes == 0 {
		o.Modes = frame.DefaultModes
	}
	o.SafetyFactors.SetDefaults()
	o.Limits.SetDefaults()
	// Options are passed by value; the slice must not alias the caller's.
	o.LoadCases = slices.Clone(o.LoadCases)
	for i := range o.LoadCases {
		if o.LoadCases[i].Name == "" {
			o.LoadCases[i].Name = fmt.Sprintf("case-%d", i+1)
		}
	}
}

// Validate checks the options without changing them.
func (o *Options) Validate() error {
	if err := o.Sections.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateFinite("foundation", o.Foundation.Elevation, o.Foundation.PileDepth, o.TransitionElevation, o.HubHeight); err != nil {
		return err
	}
	if len(o.LoadCases) == 0 {
		return errors.New(errors.ErrCodeConfiguration, "at least one load case is required")
	}
	if o.NumLoadCases != 0 && o.NumLoadCases != len(o.LoadCases) {
		return errors.New(errors.ErrCodeConfiguration,
			"num_load_cases is %d but %d load cases were given", o.NumLoadCases, len(o.LoadCases))
	}
	seen := make(map[string]bool, len(o.LoadCases))
	for _, c := range o.LoadCases {
		if seen[c.Name] {
			return errors.New(errors.ErrCodeConfiguration, "duplicate load case name %q", c.Name)
		}
		seen[c.Name] = true
		if c.WaveHeight != 0 && !(c.WavePeriod > 0) {
			return errors.New(errors.ErrCodeConfiguration, "load case %q has a wave height but no period", c.Name)
		}
	}
	if err := ValidateWindModel(o.Wind.Model); err != nil {
		return err
	}
	if err := errors.ValidatePositive("material", o.Material.E, o.Material.G, o.Material.Density, o.Material.Yield); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "invalid material")
	}
	if !(o.OutfittingFactor > 0) {
		return errors.New(errors.ErrCodeConfiguration, "outfitting factor must be positive, got %v", o.OutfittingFactor)
	}
	if o.Foundation.Monopile {
		if err := o.Soil.Validate(); err != nil {
			return err
		}
	}
	if o.Modes < 0 {
		return errors.New(errors.ErrCodeConfiguration, "modes must not be negative, got %d", o.Modes)
	}
	return o.SafetyFactors.Validate()
}

// ValidateWindModel checks that a wind profile name is supported.
func ValidateWindModel(model string) error {
	if !ValidWindModels[model] {
		return errors.New(errors.ErrCodeConfiguration, "invalid wind model %q (must be one of: power, log)", model)
	}
	return nil
}

// WaterDepth returns the water depth used for wave loads.
func (o *Options) WaterDepth() float64 {
	if o.Wave.Depth > 0 {
		return o.Wave.Depth
	}
	if o.Foundation.Monopile && o.Foundation.Elevation < 0 {
		return -o.Foundation.Elevation
	}
	return 0
}
