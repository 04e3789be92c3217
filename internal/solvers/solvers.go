// Package solvers is the self-registration hub the example solver plugins
// register themselves into, standing in for the teacher corpus's
// AutoRegisterSolver derive + inventory::submit! linkme-based discovery
// (aoc-solver/src/registry.rs's RegisterableSolver / register_all_plugins).
// Go has no compile-time attribute/linker-section registry of that kind, so
// each solver package calls Register from its own init(), and the binary
// blank-imports every solver package it wants compiled in - the same
// "imported for side effects" shape as database/sql drivers.
package solvers

import "github.com/joeycumines/aocrunner/internal/registry"

var registrations []func(*registry.Builder)

// Register adds fn to the set run by BuildAll. Intended to be called from a
// solver package's init().
func Register(fn func(*registry.Builder)) {
	registrations = append(registrations, fn)
}

// BuildAll runs every registered plugin's registration func against a fresh
// Builder and returns it, ready for Build.
func BuildAll() *registry.Builder {
	b := new(registry.Builder)
	for _, fn := range registrations {
		fn(b)
	}
	return b
}
