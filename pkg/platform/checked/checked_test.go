package checked

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civitas/pkg/platform/sentinel"
)

func TestAddU64(t *testing.T) {
	v, err := AddU64(1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)

	_, err = AddU64(math.MaxUint64, 1)
	assert.ErrorIs(t, err, sentinel.ErrOverflow)

	v, err = AddU64(math.MaxUint64, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)
}

func TestMulU64(t *testing.T) {
	v, err := MulU64(1000, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(100000), v)

	v, err = MulU64(0, math.MaxUint64)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = MulU64(math.MaxUint64, 2)
	assert.ErrorIs(t, err, sentinel.ErrOverflow)
}

func TestSubU64(t *testing.T) {
	v, err := SubU64(5, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	_, err = SubU64(3, 5)
	assert.ErrorIs(t, err, sentinel.ErrOverflow)
}
