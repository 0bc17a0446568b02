package api

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// RegionInfo identifies one contiguous key-range partition of a table.
// Should be immutable after construction.
type RegionInfo struct {
	Table TableName
	Start Key // inclusive (empty = open)
	End   Key // exclusive (empty = open)

	// ID makes regions covering the same range at different times
	// distinct, e.g. before and after a truncate.
	ID int64
}

// Name returns the full region name, like:
// t1,startkey,1613234567890.5e2a...cc81.
func (ri RegionInfo) Name() string {
	base := ri.nameBase()
	return fmt.Sprintf("%s.%s.", base, encode(base))
}

// EncodedName returns the short, derived, stable identifier for the
// region: the hex md5 of the full name prefix.
func (ri RegionInfo) EncodedName() string {
	return encode(ri.nameBase())
}

func (ri RegionInfo) nameBase() string {
	return fmt.Sprintf("%s,%s,%d", ri.Table.String(), ri.Start, ri.ID)
}

func encode(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func (ri RegionInfo) IsMeta() bool {
	return ri.Table.IsMeta()
}

// Contains reports whether the given key falls inside the region.
func (ri RegionInfo) Contains(k Key) bool {
	if ri.Start != ZeroKey {
		if k < ri.Start {
			return false
		}
	}

	if ri.End != ZeroKey {
		// Note that the region end is exclusive!
		if k >= ri.End {
			return false
		}
	}

	return true
}

// String returns a string like: t1 [-inf, +inf]
func (ri RegionInfo) String() string {
	var s, e string

	if ri.Start == ZeroKey {
		s = "[-inf"
	} else {
		s = fmt.Sprintf("[%s", ri.Start)
	}

	if ri.End == ZeroKey {
		e = "+inf)"
	} else {
		e = fmt.Sprintf("%s)", ri.End)
	}

	return fmt.Sprintf("%s %s, %s", ri.Table, s, e)
}

// RegionLocation is a region plus the server currently hosting it.
// It's looked up on demand and identifies, never controls, the region.
type RegionLocation struct {
	Region RegionInfo
	Server ServerName
}
