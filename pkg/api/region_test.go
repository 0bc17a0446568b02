package api

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionName(t *testing.T) {
	tn, err := NewTableName("t1")
	require.NoError(t, err)

	ri := RegionInfo{Table: tn, Start: Key("a"), End: Key("b"), ID: 42}

	enc := ri.EncodedName()
	assert.Len(t, enc, 32, "hex md5")
	assert.Equal(t, fmt.Sprintf("t1,a,42.%s.", enc), ri.Name())

	// Derived and stable.
	assert.Equal(t, enc, ri.EncodedName())

	// Distinct regions get distinct encoded names, even over the same
	// range.
	other := RegionInfo{Table: tn, Start: Key("a"), End: Key("b"), ID: 43}
	assert.NotEqual(t, enc, other.EncodedName())
}

func TestRegionContains(t *testing.T) {
	tn, _ := NewTableName("t1")
	ri := RegionInfo{Table: tn, Start: Key("b"), End: Key("d")}

	assert.False(t, ri.Contains(Key("a")))
	assert.True(t, ri.Contains(Key("b")), "start is inclusive")
	assert.True(t, ri.Contains(Key("c")))
	assert.False(t, ri.Contains(Key("d")), "end is exclusive")

	// Open on both ends.
	all := RegionInfo{Table: tn}
	assert.True(t, all.Contains(Key("a")))
	assert.True(t, all.Contains(Key("zzz")))
}

func TestRegionIsMeta(t *testing.T) {
	assert.True(t, RegionInfo{Table: MetaTableName}.IsMeta())

	tn, _ := NewTableName("t1")
	assert.False(t, RegionInfo{Table: tn}.IsMeta())
}
