package dpcache

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Parallel is the concurrency-safe memoizing cache (§4.2). Independent
// dependencies of one index are resolved concurrently (bounded by
// MaxConcurrency, mirroring the engine's errgroup-and-semaphore dispatch
// pattern), and a singleflight.Group guarantees each index's Compute runs
// at most once even when many goroutines request it simultaneously - the
// backend itself only needs to store values safely, not arbitrate winners.
type Parallel[I any, K any] struct {
	backend ParallelBackend[I, K]
	problem Problem[I, K]
	group   singleflight.Group

	// MaxConcurrency bounds how many dependencies of a single Get call are
	// resolved concurrently. Zero means unbounded.
	MaxConcurrency int
}

// NewParallel builds a Parallel cache over backend, solving problem.
func NewParallel[I any, K any](backend ParallelBackend[I, K], problem Problem[I, K]) *Parallel[I, K] {
	return &Parallel[I, K]{backend: backend, problem: problem}
}

// Get resolves index, safe for concurrent use. As with the sequential
// Cache, cyclic dependencies are not detected and will deadlock or recurse
// without bound (§4.2 Non-goals).
func (c *Parallel[I, K]) Get(index I) (K, error) {
	if v, ok := c.backend.Get(index); ok {
		return v, nil
	}

	deps := c.problem.Deps(index)
	depVals := make([]K, len(deps))
	g := new(errgroup.Group)
	if c.MaxConcurrency > 0 {
		g.SetLimit(c.MaxConcurrency)
	}
	for i, d := range deps {
		i, d := i, d
		g.Go(func() error {
			v, err := c.Get(d)
			if err != nil {
				return err
			}
			depVals[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var zero K
		return zero, err
	}

	key := fmt.Sprint(index)
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check after the wait: a concurrent caller for this exact index
		// may have already finished the computation and stored it.
		if v, ok := c.backend.Get(index); ok {
			return v, nil
		}
		value := c.problem.Compute(index, depVals)
		if err := c.backend.Insert(index, value); err != nil {
			var zero K
			return zero, err
		}
		return value, nil
	})
	if err != nil {
		var zero K
		return zero, err
	}
	return v.(K), nil
}
