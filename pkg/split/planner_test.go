package split

import (
	"math/big"
	"testing"

	"github.com/adammck/tadmin/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSmall(t *testing.T) {
	// [0x00, 0x10) into 4 slices of 4 keys each.
	keys, err := Plan(api.Key("\x00"), api.Key("\x10"), 4)
	require.NoError(t, err)
	assert.Equal(t, []api.Key{"\x04", "\x08", "\x0c"}, keys)
}

func TestPlanSingleRegion(t *testing.T) {
	keys, err := Plan(api.Key("\x00"), api.Key("\x10"), 1)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPlanUneven(t *testing.T) {
	// 16 keys into 5 slices can't divide evenly; sizes must differ by
	// at most one.
	keys, err := Plan(api.Key("\x00"), api.Key("\x10"), 5)
	require.NoError(t, err)
	require.Len(t, keys, 4)
	assertEvenSlices(t, api.Key("\x00"), api.Key("\x10"), keys)
}

func TestPlanWideRange(t *testing.T) {
	start := api.Key("\x00\x00\x00\x00\x00\x00")
	end := api.Key("\x01\x00\x00\x00\x00\x00")

	keys, err := Plan(start, end, 5)
	require.NoError(t, err)
	require.Len(t, keys, 4)

	for _, k := range keys {
		assert.Len(t, string(k), 6, "boundaries re-encode at input width")
	}

	assertEvenSlices(t, start, end, keys)
}

func TestPlanPadsNarrowStart(t *testing.T) {
	// Start is padded to end's width, preserving order.
	keys, err := Plan(api.Key("\x00"), api.Key("\x01\x00"), 4)
	require.NoError(t, err)
	assert.Equal(t, []api.Key{"\x00\x40", "\x00\x80", "\x00\xc0"}, keys)
}

func TestPlanInvalid(t *testing.T) {
	_, err := Plan(api.Key("\x00"), api.Key("\x10"), 0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	_, err = Plan(api.Key("\x10"), api.Key("\x00"), 2)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	_, err = Plan(api.Key("\x10"), api.Key("\x10"), 2)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	_, err = Plan(api.ZeroKey, api.ZeroKey, 2)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

// assertEvenSlices checks that the boundaries partition [start, end)
// into strictly increasing slices whose integer sizes differ by at
// most one.
func assertEvenSlices(t *testing.T, start, end api.Key, keys []api.Key) {
	t.Helper()

	edges := make([]*big.Int, 0, len(keys)+2)
	edges = append(edges, new(big.Int).SetBytes([]byte(start)))
	for _, k := range keys {
		edges = append(edges, new(big.Int).SetBytes([]byte(k)))
	}
	edges = append(edges, new(big.Int).SetBytes([]byte(end)))

	var min, max *big.Int
	for i := 0; i < len(edges)-1; i++ {
		require.True(t, edges[i].Cmp(edges[i+1]) < 0, "boundaries must be strictly increasing")

		size := new(big.Int).Sub(edges[i+1], edges[i])
		if min == nil || size.Cmp(min) < 0 {
			min = size
		}
		if max == nil || size.Cmp(max) > 0 {
			max = size
		}
	}

	diff := new(big.Int).Sub(max, min)
	assert.True(t, diff.Cmp(big.NewInt(1)) <= 0, "slice sizes differ by %s, want at most 1", diff)
}
