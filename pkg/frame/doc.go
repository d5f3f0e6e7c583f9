// Package frame defines the contract between the structural assembly and a
// frame solver, and ships a built-in solver for vertical tubular towers.
//
// # Contract
//
// An [Input] is node-indexed: supports, point masses and point loads each
// name the mesh node they act on. Support stiffnesses at or above
// [RigidStiffness] are treated as fixed degrees of freedom. A [Solver]
// returns an [Output] with nodal displacements, natural frequencies, section
// forces and the raw (unfactored) utilisation ratios per element.
//
// # Built-in solver
//
// [BeamSolver] assembles 3D Euler-Bernoulli beam elements (six degrees of
// freedom per node) with consistent mass matrices using gonum/mat. Statics
// are solved by Cholesky factorisation; natural frequencies come from the
// symmetric eigenproblem L⁻¹KL⁻ᵀ where M = LLᵀ.
//
// Rotations follow the right-hand rule, so for a tower along z the bending
// rotations satisfy θy = dux/dz and θx = -duy/dz.
package frame
