// Package startup implements a function-call dependency graph resolver for
// decoupling complex program initialization sequences.
//
// Tasks are registered with an ordered list of named input variables (each
// read either as the latest value or as all values ever written) and zero or
// more named output variables. Run drives every registered task exactly once,
// in an order that satisfies all data dependencies. Tasks whose dependencies
// are satisfied at the same moment run in lexicographical order of their
// sort keys, so the execution order is stable across registration-order
// permutations.
//
// A variable may be written by multiple tasks. Its readers are blocked until
// every declared writer has run, which can be used to express join and
// sequencing patterns without direct dependencies between the writers.
//
// The engine accepts bindings as plain data and never inspects the callable
// beyond invoking it; see the registry package for the reflection adapter
// that produces bindings from ordinary Go functions.
package startup
