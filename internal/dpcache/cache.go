package dpcache

// Cache is the sequential memoizing cache (§4.2): it resolves an index's
// dependencies depth-first, then asks the Backend to compute-and-store the
// index's own value exactly once. Not safe for concurrent use - see Parallel
// for the concurrent-safe flavor.
type Cache[I any, K any] struct {
	backend Backend[I, K]
	problem Problem[I, K]
}

// NewCache builds a sequential Cache over backend, solving problem.
func NewCache[I any, K any](backend Backend[I, K], problem Problem[I, K]) *Cache[I, K] {
	return &Cache[I, K]{backend: backend, problem: problem}
}

// Get resolves index, recursively resolving and caching its dependencies
// first. Returns ErrOutOfBounds (or a dependency's error) unchanged if the
// backend rejects an index. Does not detect cycles: a cyclic Problem causes
// unbounded recursion (§4.2 Non-goals).
func (c *Cache[I, K]) Get(index I) (K, error) {
	if v, ok := c.backend.Get(index); ok {
		return v, nil
	}
	deps := c.problem.Deps(index)
	depVals := make([]K, len(deps))
	for i, d := range deps {
		v, err := c.Get(d)
		if err != nil {
			var zero K
			return zero, err
		}
		depVals[i] = v
	}
	return c.backend.GetOrInsert(index, func() K {
		return c.problem.Compute(index, depVals)
	})
}
