package inmem

import (
	"testing"

	"github.com/adammck/tadmin/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersister(t *testing.T) {
	p := New()

	descs, err := p.GetDescriptors()
	require.NoError(t, err)
	assert.Empty(t, descs)

	b, _ := api.NewTableName("bbb")
	a, _ := api.NewTableName("aaa")
	require.NoError(t, p.PutDescriptor(api.NewTableDescriptor(b, api.NewFamily("cf"))))
	require.NoError(t, p.PutDescriptor(api.NewTableDescriptor(a, api.NewFamily("cf"))))

	descs, err = p.GetDescriptors()
	require.NoError(t, err)
	require.Len(t, descs, 2)
	assert.Equal(t, a, descs[0].Name, "snapshot is sorted")
	assert.Equal(t, b, descs[1].Name)

	// Replace is in-place, not append.
	require.NoError(t, p.PutDescriptor(api.NewTableDescriptor(a, api.NewFamily("cf"), api.NewFamily("cf2"))))
	td, ok := p.Get(a)
	require.True(t, ok)
	assert.Len(t, td.Families, 2)

	require.NoError(t, p.DeleteDescriptor(a))
	_, ok = p.Get(a)
	assert.False(t, ok)

	// Deleting an absent descriptor is not an error.
	require.NoError(t, p.DeleteDescriptor(a))
}
