package aocerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine_SingleWithSingleProducesMultiple(t *testing.T) {
	a := NewInputFetch(2015, 1, errors.New("fetch failed"))
	b := NewSolver(errors.New("solve failed"))
	combined := Combine(a, b)
	require.Equal(t, 2, combined.Len())
}

func TestCombine_MultipleWithSingle(t *testing.T) {
	combined := Combine(NewInputFetch(2015, 1, errors.New("a")), NewSolver(errors.New("b")))
	combined = Combine(combined, NewCacheWrite(2015, 2, errors.New("c")))
	assert.Equal(t, 3, combined.Len())
}

func TestCombine_SingleWithMultiple(t *testing.T) {
	multi := Combine(NewInputFetch(2015, 1, errors.New("a")), NewSolver(errors.New("b")))
	combined := Combine(NewCacheWrite(2015, 2, errors.New("c")), multi)
	assert.Equal(t, 3, combined.Len())
}

func TestCombine_MultipleWithMultiple(t *testing.T) {
	left := Combine(NewInputFetch(2015, 1, errors.New("a")), NewSolver(errors.New("b")))
	right := Combine(NewCacheWrite(2015, 2, errors.New("c")), NewChannelSend())
	combined := Combine(left, right)
	assert.Equal(t, 4, combined.Len())
}

func TestCombine_NilPassthrough(t *testing.T) {
	single := NewSolver(errors.New("boom"))
	assert.Same(t, single, Combine(nil, single))
	assert.Same(t, single, Combine(single, nil))
	assert.Nil(t, Combine(nil, nil))
}

func TestCombine_NeverMutatesInputs(t *testing.T) {
	a := NewInputFetch(2015, 1, errors.New("a"))
	b := NewSolver(errors.New("b"))
	_ = Combine(a, b)
	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestLen_NilAggregateIsZero(t *testing.T) {
	var a *Aggregate
	assert.Equal(t, 0, a.Len())
}

func TestError_SingleLeafIsUnwrapped(t *testing.T) {
	a := NewCacheWrite(2015, 1, errors.New("disk full"))
	assert.Contains(t, a.Error(), "disk full")
	assert.Contains(t, a.Error(), "cache_write")
}

func TestError_MultipleLeavesListsAll(t *testing.T) {
	a := Combine(NewInputFetch(2015, 1, errors.New("a")), NewSolver(errors.New("b")))
	msg := a.Error()
	assert.Contains(t, msg, "2 errors occurred")
	assert.Contains(t, msg, "a")
	assert.Contains(t, msg, "b")
}

func TestIs_MatchesSentinelOnAnyLeaf(t *testing.T) {
	a := Combine(NewSolver(errors.New("unrelated")), NewChannelSend())
	assert.True(t, errors.Is(a, ErrChannelSend))
	assert.False(t, errors.Is(a, ErrDuplicateSolver))
}
