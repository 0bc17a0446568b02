package placement

import (
	"github.com/adammck/tadmin/pkg/api"
)

// RoundRobin deals regions across servers in order. The result always
// satisfies Balanced (with nothing excluded). Returns nil when there
// are no servers to place on.
func RoundRobin(regions []api.RegionInfo, servers []api.ServerName) map[api.ServerName][]api.RegionInfo {
	if len(servers) == 0 {
		return nil
	}

	out := make(map[api.ServerName][]api.RegionInfo, len(servers))
	for i, ri := range regions {
		sn := servers[i%len(servers)]
		out[sn] = append(out[sn], ri)
	}

	return out
}
