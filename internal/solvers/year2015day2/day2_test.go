package year2015day2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/aocrunner/internal/solvers"
)

func TestNewInstance_ParseRejectsBadPrefix(t *testing.T) {
	_, err := newInstance("X5")
	assert.Error(t, err)
}

func TestNewInstance_ParseRejectsNegativeValue(t *testing.T) {
	_, err := newInstance("L-5")
	assert.Error(t, err)
}

func TestSolve_LandsExactlyOnZero(t *testing.T) {
	// 50 -R50-> 0
	in, err := newInstance("R50")
	require.NoError(t, err)
	p1, err := in.Solve(1)
	require.NoError(t, err)
	assert.Equal(t, "1", p1)
	p2, err := in.Solve(2)
	require.NoError(t, err)
	assert.Equal(t, "1", p2)
}

func TestSolve_PassesThroughZeroWithoutLanding(t *testing.T) {
	// 50 -R60-> 110 % 100 = 10, passes zero once, never lands on it
	in, err := newInstance("R60")
	require.NoError(t, err)
	p1, err := in.Solve(1)
	require.NoError(t, err)
	assert.Equal(t, "0", p1)
	p2, err := in.Solve(2)
	require.NoError(t, err)
	assert.Equal(t, "1", p2)
}

func TestSolve_SharesComputationAcrossParts(t *testing.T) {
	in, err := newInstance("R50\nL100\nR25")
	require.NoError(t, err)
	_, err = in.Solve(1)
	require.NoError(t, err)
	require.NotNil(t, in.(*instance).common)
	cached := in.(*instance).common
	_, err = in.Solve(2)
	require.NoError(t, err)
	assert.Same(t, cached, in.(*instance).common)
}

func TestSolve_PartNotImplemented(t *testing.T) {
	in, err := newInstance("R10")
	require.NoError(t, err)
	_, err = in.Solve(3)
	assert.Error(t, err)
}

func TestInit_RegistersPlugin(t *testing.T) {
	b := solvers.BuildAll()
	r, err := b.Build(nil)
	require.NoError(t, err)
	info, ok := r.Info(2015, 2)
	require.True(t, ok)
	assert.True(t, info.HasTag("dependent"))
}
