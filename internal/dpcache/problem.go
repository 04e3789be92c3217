// Package dpcache implements the memoizing DP cache of §4.2: a lazy,
// dependency-resolving cache over a pluggable storage Backend, in both a
// sequential and a parallel flavor.
//
// Grounded on aoc-solutions/src/utils/dp_cache/{backend,cache,parallel,problem}.rs
// from the original Rust workspace this spec was distilled from; Go's lack
// of a borrow checker means the sequential cache needs none of that code's
// RefCell/OnceCell interior-mutability machinery - recursive calls through
// the same *Cache are simply ordinary recursive method calls.
//
// Neither flavor detects cycles in the dependency graph (§4.2 invariants):
// that the graph is a DAG is the caller's responsibility, not this
// package's, and cyclic input may cause unbounded recursion or deadlock.
package dpcache

import "errors"

// ErrOutOfBounds is returned by a bounded Backend's GetOrInsert when index
// falls outside the backend's fixed capacity.
var ErrOutOfBounds = errors.New("dpcache: index out of bounds")

// Problem is the two-contract interface a DP problem implements: how an
// index depends on other indices, and how to compute a value once its
// dependencies are resolved (§3: DpProblem<I,K>).
type Problem[I any, K any] interface {
	// Deps returns the indices index depends on. Base cases return nil/empty.
	Deps(index I) []I
	// Compute computes the value for index given its resolved dependency
	// values, in the same order Deps returned them.
	Compute(index I, deps []K) K
}

// ClosureProblem adapts two plain functions into the Problem interface, so
// problems can be defined inline without a named type (§4.2: "A
// ClosureProblem adapter wraps two callables into the DpProblem trait").
type ClosureProblem[I any, K any] struct {
	DepsFn    func(I) []I
	ComputeFn func(I, []K) K
}

func (c ClosureProblem[I, K]) Deps(index I) []I           { return c.DepsFn(index) }
func (c ClosureProblem[I, K]) Compute(index I, deps []K) K { return c.ComputeFn(index, deps) }
