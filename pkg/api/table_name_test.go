package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTableName(t *testing.T) {
	tn, err := NewTableName("t1")
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, tn.Namespace)
	assert.Equal(t, "t1", tn.Qualifier)
	assert.Equal(t, "t1", tn.String())

	tn, err = NewTableName("ns:t1")
	require.NoError(t, err)
	assert.Equal(t, "ns", tn.Namespace)
	assert.Equal(t, "t1", tn.Qualifier)
	assert.Equal(t, "ns:t1", tn.String())
}

func TestNewTableNameInvalid(t *testing.T) {
	for _, s := range []string{"", "ns:", ":t1", "a,b", "ns:a:b"} {
		_, err := NewTableName(s)
		assert.ErrorIs(t, err, ErrInvalidArgument, "input: %q", s)
	}
}

func TestMetaTableName(t *testing.T) {
	assert.Equal(t, "sys:meta", MetaTableName.String())
	assert.True(t, MetaTableName.IsMeta())
	assert.True(t, MetaTableName.IsSystem())

	tn, err := NewTableName("meta")
	require.NoError(t, err)
	assert.False(t, tn.IsMeta(), "default:meta is not the meta table")
}

func TestTableNameLess(t *testing.T) {
	a, _ := NewTableName("aaa")
	b, _ := NewTableName("bbb")
	s, _ := NewTableName("zzz:aaa")

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.True(t, a.Less(s), "namespace sorts first")
}
