package split

import (
	"fmt"
	"sort"

	"github.com/adammck/tadmin/pkg/api"
)

// Validate checks an explicit split-key list: no empty keys, no
// duplicates. Any bad entry fails the whole list; nothing is silently
// dropped. Returns a sorted copy, which creating a table from n splits
// turns into n+1 regions.
func Validate(splits []api.Key) ([]api.Key, error) {
	seen := make(map[api.Key]bool, len(splits))
	out := make([]api.Key, 0, len(splits))

	for _, k := range splits {
		if k == api.ZeroKey {
			return nil, fmt.Errorf("%w: empty split key", api.ErrInvalidArgument)
		}
		if seen[k] {
			return nil, fmt.Errorf("%w: duplicate split key: %q", api.ErrInvalidArgument, string(k))
		}
		seen[k] = true
		out = append(out, k)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})

	return out, nil
}
