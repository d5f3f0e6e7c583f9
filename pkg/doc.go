// Package pkg provides the libraries behind pylon, a structural assembly
// pipeline for wind turbine towers on land foundations or monopiles.
//
// # Overview
//
// A design is a stack of conical shell sections, a foundation and a set of
// rotor load cases. Pylon reconciles the pile with the lowest section,
// cuts the stack into beam elements, assembles masses, supports and loads
// for a frame solver, and turns the solver outputs into safety-factored
// utilisation margins.
//
// # Architecture
//
//	sections + foundation
//	         ↓
//	    [geometry] AdjustFoundation, Discretize
//	         ↓
//	    [shell] section properties → [mass] Assemble
//	         ↓
//	    [assembly] supports ([soil]), point masses ([inertia]), point loads
//	         ↓
//	    [loads] wind / wave → [frame] Solver
//	         ↓
//	    [margin] Evaluate, Aggregate
//
// [pipeline] runs the stages with caching ([cache]) and observability hooks
// ([observability]).
//
// # Quick Start
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/matzehuels/pylon/pkg/config"
//	    "github.com/matzehuels/pylon/pkg/pipeline"
//	)
//
//	design, _ := config.Load("tower.toml")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, err := runner.Execute(context.Background(), design.Options())
//	fmt.Println(res.Summary().Compliant)
//
// # Main Packages
//
// ## Structure
//
// [geometry] - Section stacks, foundation adjustment, meshing and the hub
// height constraint.
//
// [shell] - Thin-walled tube properties (area, second moments, torsion) per
// element.
//
// [mass] - Tower and monopile mass, cost and centre of mass.
//
// [inertia] - Point mass inertia tensors and parallel-axis transport.
//
// [soil] - Embedded pile spring stiffness from soil shear modulus.
//
// [assembly] - Boundary conditions, point mass and point load placement.
//
// [loads] - Wind profiles and linear wave kinematics as distributed loads.
//
// [frame] - The solver interface and the built-in Euler-Bernoulli beam solver.
//
// [margin] - Safety factors, per-case margins, the envelope and geometric
// constraints.
//
// ## Infrastructure
//
// [cache] - Solver output cache: file, Redis and no-op backends.
//
// [store] - Analysis records in memory or MongoDB.
//
// [report] - JSON, XLSX, PDF, plot and Graphviz exports of a result.
//
// [config] - TOML design files and environment settings.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information stamped at link time.
//
// [geometry]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/geometry
// [shell]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/shell
// [mass]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/mass
// [inertia]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/inertia
// [soil]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/soil
// [assembly]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/assembly
// [loads]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/loads
// [frame]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/frame
// [margin]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/margin
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/observability
// [store]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/store
// [report]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/report
// [config]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pylon/pkg/buildinfo
package pkg
