// Package split plans and validates the split keys which divide a
// table into regions.
package split

import (
	"fmt"
	"math/big"

	"github.com/adammck/tadmin/pkg/api"
)

// Plan computes evenly-spaced split keys for the key range [start,
// end), divided into numRegions slices. It returns the numRegions-1
// interior boundaries, each encoded at the same byte width as the
// inputs.
//
// Keys are interpreted as big-endian unsigned integers of equal width
// (the shorter input is zero-padded on the right, which preserves
// lexicographic order). When the range doesn't divide evenly, slice
// sizes differ by at most one.
func Plan(start, end api.Key, numRegions int) ([]api.Key, error) {
	if numRegions < 1 {
		return nil, fmt.Errorf("%w: numRegions must be at least 1, got %d", api.ErrInvalidArgument, numRegions)
	}

	width := len(start)
	if len(end) > width {
		width = len(end)
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: empty key range", api.ErrInvalidArgument)
	}

	si := new(big.Int).SetBytes(pad([]byte(start), width))
	ei := new(big.Int).SetBytes(pad([]byte(end), width))

	if si.Cmp(ei) >= 0 {
		return nil, fmt.Errorf("%w: start key must be less than end key", api.ErrInvalidArgument)
	}

	span := new(big.Int).Sub(ei, si)
	n := big.NewInt(int64(numRegions))

	out := make([]api.Key, 0, numRegions-1)
	for i := 1; i < numRegions; i++ {
		// boundary = start + span*i/numRegions, which floors, so the
		// remainder is spread one key at a time over the tail slices.
		b := new(big.Int).Mul(span, big.NewInt(int64(i)))
		b.Div(b, n)
		b.Add(b, si)
		out = append(out, encode(b, width))
	}

	return out, nil
}

// pad extends b to the given width with trailing zero bytes.
func pad(b []byte, width int) []byte {
	if len(b) >= width {
		return b
	}
	out := make([]byte, width)
	copy(out, b)
	return out
}

// encode renders i as a fixed-width big-endian byte sequence.
func encode(i *big.Int, width int) api.Key {
	b := i.Bytes()
	if len(b) >= width {
		return api.Key(b)
	}
	out := make([]byte, width)
	copy(out[width-len(b):], b)
	return api.Key(out)
}
