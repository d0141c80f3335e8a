package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Clamp(-4, 0, 3))
	assert.Equal(t, 3, Clamp(9, 0, 3))
	assert.Equal(t, 2, Clamp(2, 0, 3))
	assert.Equal(t, 1.5, Clamp(1.5, 0.0, 2.0))
}

func TestGetKeysSorted(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{0, 1, 2.5}, GetKeysSorted(map[float64]int{2.5: 2, 0: 0, 1: 1}))
}

func TestBinaryRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data.dat")
	require.NoError(t, CreateBinary(path, map[string][]float64{"a": {0, 1.5}}))

	got, err := ReadBinary[map[string][]float64](path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1.5}, got["a"])
}

func TestSum(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Sum([]int{}))
	assert.Equal(t, 6, Sum([]int{1, 2, 3}))
	assert.Equal(t, 3.5, Sum([]float64{1, 2.5}))
}
