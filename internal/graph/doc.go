// Package graph provides preflight diagnostics for a boot plan's dependency
// graph: missing writers and cycles are reported before execution starts,
// with the task and variable names involved.
//
// The engine's own drain-time unsatisfiable-dependency check remains
// authoritative; this package exists to turn "these tasks never ran" into a
// message that says why.
package graph
