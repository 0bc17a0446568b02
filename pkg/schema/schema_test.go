package schema

import (
	"testing"

	"github.com/adammck/tadmin/pkg/api"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func desc(t *testing.T, families ...api.FamilyDescriptor) api.TableDescriptor {
	t.Helper()
	tn, err := api.NewTableName("t1")
	require.NoError(t, err)
	return api.NewTableDescriptor(tn, families...)
}

func TestAddFamily(t *testing.T) {
	td := desc(t, api.NewFamily("cf0"))

	out, err := AddFamily(td, api.NewFamily("cf1"))
	require.NoError(t, err)
	assert.True(t, out.HasFamily("cf1"))

	// Copy-on-write: the input descriptor is untouched.
	assert.False(t, td.HasFamily("cf1"))

	// Adding it again is rejected.
	_, err = AddFamily(out, api.NewFamily("cf1"))
	assert.ErrorIs(t, err, api.ErrAlreadyExists)

	_, err = AddFamily(td, api.FamilyDescriptor{})
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestModifyFamily(t *testing.T) {
	td := desc(t, api.NewFamily("cf0"))

	// The replacement is wholesale: the changed block size takes
	// effect on re-read.
	out, err := ModifyFamily(td, api.NewFamily("cf0").WithBlockSize(128*1024))
	require.NoError(t, err)

	fd, ok := out.Family("cf0")
	require.True(t, ok)
	assert.Equal(t, 128*1024, fd.BlockSize)

	fd, _ = td.Family("cf0")
	assert.Equal(t, api.DefaultBlockSize, fd.BlockSize, "input untouched")

	_, err = ModifyFamily(td, api.NewFamily("nope"))
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestDeleteFamily(t *testing.T) {
	td := desc(t, api.NewFamily("cf0"), api.NewFamily("cf1"))

	out, err := DeleteFamily(td, "cf1")
	require.NoError(t, err)
	assert.False(t, out.HasFamily("cf1"))
	assert.True(t, td.HasFamily("cf1"), "input untouched")

	// Deleting the same family twice in a row is rejected by the
	// second call.
	_, err = DeleteFamily(out, "cf1")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestAddThenDeleteRoundTrip(t *testing.T) {
	td := desc(t, api.NewFamily("cf0"))

	added, err := AddFamily(td, api.NewFamily("cf1"))
	require.NoError(t, err)

	restored, err := DeleteFamily(added, "cf1")
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(td, restored), "add then delete restores the pre-add descriptor")
}
