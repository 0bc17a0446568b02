package placement

import (
	"testing"

	"github.com/adammck/tadmin/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sn(host string) api.ServerName {
	return api.ServerName{Host: host, Port: 8080, StartTime: 1}
}

func TestExpectedSpread(t *testing.T) {
	min, max, err := ExpectedSpread(10, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, min)
	assert.Equal(t, 4, max)

	min, max, err = ExpectedSpread(9, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, min)
	assert.Equal(t, 3, max)

	min, max, err = ExpectedSpread(0, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, min)
	assert.Equal(t, 0, max)

	_, _, err = ExpectedSpread(5, 0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestBalanced(t *testing.T) {
	counts := map[api.ServerName]int{
		sn("a"): 4,
		sn("b"): 3,
		sn("c"): 3,
	}
	assert.NoError(t, Balanced(counts, api.ZeroServerName))

	counts[sn("a")] = 5
	counts[sn("b")] = 2
	assert.Error(t, Balanced(counts, api.ZeroServerName))
}

func TestBalancedExcludes(t *testing.T) {
	// The server hosting the meta table carries fewer regions by
	// design, so it's removed from the pool before the division.
	counts := map[api.ServerName]int{
		sn("meta-host"): 1,
		sn("b"):         5,
		sn("c"):         5,
	}
	assert.Error(t, Balanced(counts, api.ZeroServerName))
	assert.NoError(t, Balanced(counts, sn("meta-host")))
}

func TestRoundRobin(t *testing.T) {
	tn, _ := api.NewTableName("t1")

	regions := make([]api.RegionInfo, 10)
	for i := range regions {
		regions[i] = api.RegionInfo{Table: tn, ID: int64(i)}
	}
	servers := []api.ServerName{sn("a"), sn("b"), sn("c")}

	assigned := RoundRobin(regions, servers)
	require.Len(t, assigned, 3)

	counts := map[api.ServerName]int{}
	total := 0
	for s, rs := range assigned {
		counts[s] = len(rs)
		total += len(rs)
	}
	assert.Equal(t, 10, total, "every region is placed")
	assert.NoError(t, Balanced(counts, api.ZeroServerName))

	assert.Nil(t, RoundRobin(regions, nil))
}
