package pipeline

import (
	"context"
	"encoding/json"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/pylon/pkg/assembly"
	"github.com/matzehuels/pylon/pkg/cache"
	"github.com/matzehuels/pylon/pkg/errors"
	"github.com/matzehuels/pylon/pkg/frame"
	"github.com/matzehuels/pylon/pkg/geometry"
	"github.com/matzehuels/pylon/pkg/loads"
	"github.com/matzehuels/pylon/pkg/margin"
	"github.com/matzehuels/pylon/pkg/mass"
	"github.com/matzehuels/pylon/pkg/observability"
	"github.com/matzehuels/pylon/pkg/shell"
)

// Stage names reported to observability hooks.
const (
	StageFoundation = "foundation"
	StageDiscretize = "discretize"
	StageMass       = "mass"
	StageCases      = "cases"
)

// Runner executes analyses with a shared cache, engine and solver.
//
// A Runner holds no per-analysis state; several goroutines may call Execute
// concurrently.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Engine shell.Engine
	Solver frame.Solver
}

// NewRunner creates a runner with the built-in engine and solver. A nil
// cache disables caching, a nil keyer selects the DefaultKeyer and a nil
// logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Engine: shell.Cylinder{},
		Solver: frame.BeamSolver{},
	}
}

// structure is the load-independent state shared by every load case.
type structure struct {
	opts   *Options
	result *Result
	// hubElevation is the absolute hub elevation, the default wind
	// reference height.
	hubElevation float64
}

// Execute runs the full analysis.
//
// A failing load case does not stop its siblings. When any case fails the
// partially filled result is returned together with an error carrying the
// code of the first failure; Aggregate is then nil.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Name: opts.Name}
	st := &structure{opts: &opts, result: result}

	// Stage 1: Foundation
	start := time.Now()
	observability.Pipeline().OnStageStart(ctx, StageFoundation)
	adj, err := geometry.AdjustFoundation(opts.Sections, opts.Foundation)
	result.Stats.FoundationTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, StageFoundation, result.Stats.FoundationTime, err)
	if err != nil {
		return nil, err
	}
	result.Geometry = adj
	if adj.Clamped {
		r.Logger.Warn("pile depth clamped", "depth", opts.Foundation.PileDepth, "used", adj.Embedment)
	}
	r.Logger.Debug("adjusted foundation",
		"sections", adj.Sections.Len(),
		"base", adj.BaseElevation,
		"extended", adj.Extended)

	// Stage 2: Discretize
	start = time.Now()
	observability.Pipeline().OnStageStart(ctx, StageDiscretize)
	mesh, err := geometry.Discretize(adj.Sections, adj.BaseElevation, opts.Mesh)
	result.Stats.DiscretizeTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, StageDiscretize, result.Stats.DiscretizeTime, err)
	if err != nil {
		return nil, err
	}
	result.Mesh = mesh
	result.Stats.Nodes = mesh.Nodes()
	result.Stats.Elements = mesh.Elements()
	hub := opts.HubHeight
	if hub == 0 {
		hub = mesh.Top() - opts.HubReference
	}
	result.HeightConstraint = geometry.HeightConstraint(hub, opts.HubReference, mesh.Z)
	st.hubElevation = opts.HubReference + hub

	r.Logger.Info("discretized tower",
		"nodes", mesh.Nodes(),
		"elements", mesh.Elements(),
		"duration", result.Stats.DiscretizeTime)

	// Stage 3: Mass
	start = time.Now()
	observability.Pipeline().OnStageStart(ctx, StageMass)
	err = r.assembleMass(st)
	result.Stats.MassTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, StageMass, result.Stats.MassTime, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("assembled mass",
		"tower", result.Mass.TowerMass,
		"monopile", result.Mass.MonopileTotalMass,
		"duration", result.Stats.MassTime)

	// Stages 4 and 5: load cases
	start = time.Now()
	observability.Pipeline().OnStageStart(ctx, StageCases)
	err = r.runCases(ctx, st)
	result.Stats.CasesTime = time.Since(start)
	observability.Pipeline().OnStageComplete(ctx, StageCases, result.Stats.CasesTime, err)
	if err != nil {
		return result, err
	}

	r.Logger.Info("evaluated load cases",
		"cases", len(result.Cases),
		"cache_hits", result.Stats.CacheHits,
		"duration", result.Stats.CasesTime)
	return result, nil
}

func (r *Runner) assembleMass(st *structure) error {
	opts, result := st.opts, st.result
	props, err := r.Engine.Properties(shell.Input{
		Mesh:             result.Mesh,
		Density:          opts.Material.Density,
		OutfittingFactor: opts.OutfittingFactor,
		MaterialCostRate: opts.MaterialCostRate,
		PaintingCostRate: opts.PaintingCostRate,
	})
	if err != nil {
		return err
	}
	result.Properties = props

	summary, err := mass.Assemble(mass.Input{
		Mesh:                  result.Mesh,
		Properties:            props,
		Monopile:              opts.Foundation.Monopile,
		TransitionElevation:   opts.TransitionElevation,
		MudlineElevation:      opts.Foundation.Elevation,
		TransitionPieceMass:   opts.TransitionPieceMass,
		GravityFoundationMass: opts.GravityFoundationMass,
	})
	if err != nil {
		return err
	}
	result.Mass = summary

	constraints, err := margin.Geometry(opts.Sections, opts.Limits)
	if err != nil {
		return err
	}
	result.Constraints = constraints

	if opts.Foundation.Monopile {
		k, err := opts.Soil.Stiffness(result.Mesh.Diameter[0], result.Geometry.Embedment)
		if err != nil {
			return err
		}
		result.SoilStiffness = k
	}
	return nil
}

// runCases evaluates every load case, sequentially or in parallel. Each case
// writes only its own slot, so both orders give the same result.
func (r *Runner) runCases(ctx context.Context, st *structure) error {
	opts, result := st.opts, st.result
	result.Cases = make([]CaseResult, len(opts.LoadCases))

	if opts.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range opts.LoadCases {
			g.Go(func() error {
				result.Cases[i] = r.runCase(gctx, st, i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range opts.LoadCases {
			result.Cases[i] = r.runCase(ctx, st, i)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		failed   []string
		firstErr error
		margins  = make([]margin.CaseMargins, 0, len(result.Cases))
	)
	for _, c := range result.Cases {
		if c.err != nil {
			failed = append(failed, c.Name)
			if firstErr == nil {
				firstErr = c.err
			}
			continue
		}
		if c.CacheHit {
			result.Stats.CacheHits++
		}
		margins = append(margins, *c.Margins)
	}
	if firstErr != nil {
		code := errors.GetCode(firstErr)
		if code == "" {
			code = errors.ErrCodeSolverFailure
		}
		return errors.Wrap(code, firstErr, "load case(s) %s failed", strings.Join(failed, ", "))
	}

	report, err := margin.Aggregate(margins)
	if err != nil {
		return err
	}
	result.Aggregate = &report
	return nil
}

func (r *Runner) runCase(ctx context.Context, st *structure, i int) CaseResult {
	opts, result := st.opts, st.result
	lc := opts.LoadCases[i]
	cr := CaseResult{Name: lc.Name}

	start := time.Now()
	observability.Pipeline().OnLoadCaseStart(ctx, lc.Name, i)
	defer func() {
		observability.Pipeline().OnLoadCaseComplete(ctx, lc.Name, i, time.Since(start), cr.err)
	}()

	fail := func(err error) CaseResult {
		cr.err = err
		cr.Error = err.Error()
		r.Logger.Error("load case failed", "case", lc.Name, "err", err)
		return cr
	}

	mesh := result.Mesh
	dist, err := r.generator(st, lc).Distributed(mesh.Z, mesh.Diameter)
	if err != nil {
		return fail(err)
	}
	cr.Distributed = dist

	asm, err := assembly.Assemble(assembly.Input{
		Mesh:                  mesh,
		Monopile:              opts.Foundation.Monopile,
		Mudline:               opts.Foundation.Elevation,
		FoundationElevation:   result.Geometry.BaseElevation,
		Soil:                  result.SoilStiffness,
		RNA:                   opts.RNA,
		TransitionElevation:   opts.TransitionElevation,
		TransitionPieceMass:   opts.TransitionPieceMass,
		GravityFoundationMass: opts.GravityFoundationMass,
		Force:                 lc.Force,
		Moment:                lc.Moment,
	})
	if err != nil {
		return fail(err)
	}
	cr.Assembly = asm

	out, hit, err := r.solve(ctx, opts, frame.Input{
		Z:           mesh.Z,
		Diameter:    mesh.Diameter,
		Thickness:   mesh.Thickness,
		ElementMass: result.Properties.Mass,
		Material:    opts.Material,
		Supports:    asm.Supports,
		Masses:      asm.Masses,
		Loads:       asm.Loads,
		Distributed: dist,
		Gravity:     !opts.DisableGravity,
		Modes:       opts.Modes,
	})
	if err != nil {
		return fail(err)
	}
	cr.Output = &out
	cr.CacheHit = hit

	m := margin.Evaluate(lc.Name, out, opts.SafetyFactors)
	cr.Margins = &m

	r.Logger.Debug("solved load case",
		"case", lc.Name,
		"frequency", out.FirstFrequency(),
		"deflection", out.TopDeflection,
		"cached", hit,
		"duration", time.Since(start))
	return cr
}

// generator combines the wind profile and, for monopiles in water, the wave.
func (r *Runner) generator(st *structure, lc LoadCase) loads.Generator {
	opts := st.opts
	var gens []loads.Generator
	if lc.WindSpeed != 0 {
		w := opts.Wind
		zref := w.Zref
		if zref == 0 {
			zref = st.hubElevation
		}
		switch w.Model {
		case WindLog:
			gens = append(gens, loads.LogWind{Uref: lc.WindSpeed, Zref: zref, Z0: w.Z0, Roughness: w.Roughness, Air: w.Air, Cd: w.Cd, Heading: lc.WindHeading})
		default:
			gens = append(gens, loads.PowerWind{Uref: lc.WindSpeed, Zref: zref, Z0: w.Z0, Shear: w.Shear, Air: w.Air, Cd: w.Cd, Heading: lc.WindHeading})
		}
	}
	if depth := opts.WaterDepth(); lc.WaveHeight != 0 && depth > 0 {
		gens = append(gens, loads.LinearWave{
			Height:  lc.WaveHeight,
			Period:  lc.WavePeriod,
			Depth:   depth,
			Water:   opts.Wave.Water,
			Cd:      opts.Wave.Cd,
			Cm:      opts.Wave.Cm,
			Heading: lc.WindHeading,
		})
	}
	return loads.Combine(gens...)
}

// solve runs the solver through the cache. The key is the hash of the
// complete solver input, so a hit returns exactly what a fresh solve would.
func (r *Runner) solve(ctx context.Context, opts *Options, in frame.Input) (frame.Output, bool, error) {
	hash, herr := cache.HashJSON(in)
	var key string
	if herr == nil {
		key = r.Keyer.SolveKey(hash)
	}

	if key != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var out frame.Output
			if err := json.Unmarshal(data, &out); err == nil {
				observability.Cache().OnCacheHit(ctx, "solve")
				return out, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "solve")
	}

	out, err := r.Solver.Solve(ctx, in)
	if err != nil {
		return frame.Output{}, false, err
	}

	if key != "" {
		if data, err := json.Marshal(out); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLSolve); err != nil {
				r.Logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "solve", len(data))
			}
		}
	}
	return out, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
