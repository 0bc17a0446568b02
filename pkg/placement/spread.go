// Package placement verifies region spread across servers. It is a
// verification utility, not a placement algorithm; actual placement is
// the master's job.
package placement

import (
	"fmt"

	"github.com/adammck/tadmin/pkg/api"
)

// ExpectedSpread returns the region counts every server should host
// when totalRegions are balanced across serverCount servers: each one
// carries either min or max.
func ExpectedSpread(totalRegions, serverCount int) (min, max int, err error) {
	if serverCount < 1 {
		return 0, 0, fmt.Errorf("%w: serverCount must be at least 1, got %d", api.ErrInvalidArgument, serverCount)
	}
	if totalRegions < 0 {
		return 0, 0, fmt.Errorf("%w: negative totalRegions: %d", api.ErrInvalidArgument, totalRegions)
	}

	min = totalRegions / serverCount
	max = min
	if totalRegions%serverCount != 0 {
		max++
	}

	return min, max, nil
}

// Balanced checks that every server in counts hosts either min or max
// regions per ExpectedSpread. The excluded server (typically the one
// hosting the meta table, which carries fewer regions by design) is
// removed from the pool before the division.
func Balanced(counts map[api.ServerName]int, exclude api.ServerName) error {
	total := 0
	servers := 0
	for sn, c := range counts {
		if sn == exclude {
			continue
		}
		total += c
		servers++
	}

	min, max, err := ExpectedSpread(total, servers)
	if err != nil {
		return err
	}

	for sn, c := range counts {
		if sn == exclude {
			continue
		}
		if c != min && c != max {
			return fmt.Errorf("server %s hosts %d regions, want %d or %d", sn, c, min, max)
		}
	}

	return nil
}
