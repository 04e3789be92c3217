package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/aocrunner/internal/aocerr"
	"github.com/joeycumines/aocrunner/internal/solver"
)

func stubFactory(input string) (solver.Instance, error) {
	return nil, nil
}

func TestRegister_DuplicateYearDayFails(t *testing.T) {
	var b Builder
	require.NoError(t, b.Register(solver.Plugin{Info: solver.Info{Year: 2015, Day: 1, Parts: 2}, Factory: stubFactory}))

	err := b.Register(solver.Plugin{Info: solver.Info{Year: 2015, Day: 1, Parts: 2}, Factory: stubFactory})
	require.Error(t, err)
	assert.True(t, errors.Is(err, aocerr.ErrDuplicateSolver))
}

func TestRegister_DifferentDayOrYearSucceeds(t *testing.T) {
	var b Builder
	require.NoError(t, b.Register(solver.Plugin{Info: solver.Info{Year: 2015, Day: 1, Parts: 2}, Factory: stubFactory}))
	require.NoError(t, b.Register(solver.Plugin{Info: solver.Info{Year: 2015, Day: 2, Parts: 2}, Factory: stubFactory}))
	require.NoError(t, b.Register(solver.Plugin{Info: solver.Info{Year: 2016, Day: 1, Parts: 2}, Factory: stubFactory}))
}

func TestMustRegister_PanicsOnDuplicate(t *testing.T) {
	var b Builder
	b.MustRegister(solver.Plugin{Info: solver.Info{Year: 2015, Day: 1, Parts: 2}, Factory: stubFactory})
	assert.Panics(t, func() {
		b.MustRegister(solver.Plugin{Info: solver.Info{Year: 2015, Day: 1, Parts: 2}, Factory: stubFactory})
	})
}

func taggedBuilder(t *testing.T) *Builder {
	t.Helper()
	b := new(Builder)
	require.NoError(t, b.Register(solver.Plugin{
		Info:    solver.Info{Year: 2015, Day: 1, Parts: 2, Tags: map[string]struct{}{"independent": {}, "example": {}}},
		Factory: stubFactory,
	}))
	require.NoError(t, b.Register(solver.Plugin{
		Info:    solver.Info{Year: 2015, Day: 2, Parts: 2, Tags: map[string]struct{}{"dependent": {}, "example": {}}},
		Factory: stubFactory,
	}))
	return b
}

func TestBuild_EmptyTagFilterAcceptsAll(t *testing.T) {
	r, err := taggedBuilder(t).Build(nil)
	require.NoError(t, err)
	assert.Len(t, r.IterInfo(), 2)

	r2, err := taggedBuilder(t).Build([]string{})
	require.NoError(t, err)
	assert.Len(t, r2.IterInfo(), 2)
}

func TestBuild_TagFilterAppliesAndSemantics(t *testing.T) {
	r, err := taggedBuilder(t).Build([]string{"example", "independent"})
	require.NoError(t, err)
	infos := r.IterInfo()
	require.Len(t, infos, 1)
	assert.Equal(t, uint8(1), infos[0].Day)
}

func TestBuild_TagFilterExcludingAllYieldsEmptyRegistry(t *testing.T) {
	r, err := taggedBuilder(t).Build([]string{"nonexistent"})
	require.NoError(t, err)
	assert.Empty(t, r.IterInfo())
}

func TestBuild_FilterIsIdempotent(t *testing.T) {
	filter := []string{"example"}
	r1, err := taggedBuilder(t).Build(filter)
	require.NoError(t, err)
	r2, err := taggedBuilder(t).Build(filter)
	require.NoError(t, err)
	assert.Equal(t, r1.IterInfo(), r2.IterInfo())

	// Building twice from the same filter slice never mutates it, so a
	// caller reusing the slice across repeated builds sees the same result.
	r3, err := taggedBuilder(t).Build(filter)
	require.NoError(t, err)
	assert.Equal(t, []string{"example"}, filter)
	assert.Equal(t, r1.IterInfo(), r3.IterInfo())
}

func TestCreateSolver_NotFound(t *testing.T) {
	r, err := taggedBuilder(t).Build(nil)
	require.NoError(t, err)
	_, err = r.CreateSolver(1999, 1, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, aocerr.ErrNotFound))
}

func TestInfo_ReturnsRegisteredMetadata(t *testing.T) {
	r, err := taggedBuilder(t).Build(nil)
	require.NoError(t, err)
	info, ok := r.Info(2015, 2)
	require.True(t, ok)
	assert.True(t, info.HasTag("dependent"))

	_, ok = r.Info(2015, 99)
	assert.False(t, ok)
}
