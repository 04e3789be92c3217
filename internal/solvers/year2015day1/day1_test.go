package year2015day1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/aocrunner/internal/registry"
	"github.com/joeycumines/aocrunner/internal/solvers"
)

func registerFresh(t *testing.T) *registry.Builder {
	t.Helper()
	return solvers.BuildAll()
}

func TestNewInstance_SumAndProduct(t *testing.T) {
	in, err := newInstance("1\n2\n3\n4\n5")
	require.NoError(t, err)

	sum, err := in.Solve(1)
	require.NoError(t, err)
	assert.Equal(t, "15", sum)

	product, err := in.Solve(2)
	require.NoError(t, err)
	assert.Equal(t, "120", product)
}

func TestNewInstance_TrimsWhitespace(t *testing.T) {
	in, err := newInstance("  1  \n  2  \n  3  ")
	require.NoError(t, err)
	sum, err := in.Solve(1)
	require.NoError(t, err)
	assert.Equal(t, "6", sum)
}

func TestNewInstance_InvalidLine(t *testing.T) {
	_, err := newInstance("1\nabc\n3")
	assert.Error(t, err)
}

func TestSolve_PartNotImplemented(t *testing.T) {
	in, err := newInstance("1\n2")
	require.NoError(t, err)
	_, err = in.Solve(3)
	assert.Error(t, err)
}

func TestInit_RegistersPlugin(t *testing.T) {
	b := registerFresh(t)
	r, err := b.Build(nil)
	require.NoError(t, err)
	info, ok := r.Info(2015, 1)
	require.True(t, ok)
	assert.Equal(t, uint8(2), info.Parts)
	assert.True(t, info.HasTag("independent"))
}
