// Package aggregator implements the streaming result aggregator of §4.5:
// it reorders solver results that arrive in arbitrary concurrent order back
// into deterministic (year, day, part) order, emitting a result as soon as
// every key before it has already been emitted.
//
// Grounded on _examples/original_source/aoc-cli/src/aggregator.rs's two
// binary-heap design (one min-heap of expected keys, one min-heap of
// buffered results), translated onto container/heap - the same standard
// library structure the teacher's event loop uses for its timer heap.
package aggregator

import (
	"container/heap"
	"sort"

	"github.com/joeycumines/aocrunner/internal/model"
)

type expectedHeap []model.ResultKey

func (h expectedHeap) Len() int            { return len(h) }
func (h expectedHeap) Less(i, j int) bool  { return h[i].Less(h[j]) }
func (h expectedHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *expectedHeap) Push(x any)         { *h = append(*h, x.(model.ResultKey)) }
func (h *expectedHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

type pendingHeap []model.SolverResult

func (h pendingHeap) Len() int           { return len(h) }
func (h pendingHeap) Less(i, j int) bool { return h[i].Key.Less(h[j].Key) }
func (h pendingHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *pendingHeap) Push(x any)        { *h = append(*h, x.(model.SolverResult)) }
func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Aggregator buffers out-of-order results and releases them in ascending
// (year, day, part) order. It is not safe for concurrent use: the CLI's
// runExecutor owns a single Aggregator and makes every Add call from the one
// loop that drains the engine's result channel (§5).
type Aggregator struct {
	expected expectedHeap
	pending  pendingHeap
}

// New builds an Aggregator expecting exactly the given keys, in any order.
func New(expectedKeys []model.ResultKey) *Aggregator {
	a := &Aggregator{expected: append(expectedHeap(nil), expectedKeys...)}
	heap.Init(&a.expected)
	return a
}

// Add buffers result and returns any results now ready for output, in
// ascending order. A result is ready once it is the smallest pending key
// and that key is also the smallest remaining expected key.
func (a *Aggregator) Add(result model.SolverResult) []model.SolverResult {
	heap.Push(&a.pending, result)

	var ready []model.SolverResult
	for len(a.expected) > 0 && len(a.pending) > 0 {
		nextExpected := a.expected[0]
		topPending := a.pending[0]
		if topPending.Key != nextExpected {
			break
		}
		heap.Pop(&a.expected)
		ready = append(ready, heap.Pop(&a.pending).(model.SolverResult))
	}
	return ready
}

// Drain returns all remaining buffered results, sorted ascending, for
// final flush once the engine has stopped producing new results.
func (a *Aggregator) Drain() []model.SolverResult {
	out := make([]model.SolverResult, len(a.pending))
	copy(out, a.pending)
	a.pending = a.pending[:0]
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Less(out[j].Key) })
	return out
}

// IsComplete reports whether every expected key has been emitted.
func (a *Aggregator) IsComplete() bool {
	return len(a.expected) == 0
}
