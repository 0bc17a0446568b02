// Package schema derives modified table descriptors. All mutations
// are copy-on-write: the input descriptor is never touched, so shared
// descriptors stay safe. The master applies these through the same
// path that writes the durable descriptor mirror, which is what keeps
// the two from diverging.
package schema

import (
	"fmt"

	"github.com/adammck/tadmin/pkg/api"
)

// AddFamily returns a copy of td with the family appended. Fails if a
// family of that name is already present.
func AddFamily(td api.TableDescriptor, fd api.FamilyDescriptor) (api.TableDescriptor, error) {
	if fd.Name == "" {
		return api.TableDescriptor{}, fmt.Errorf("%w: empty family name", api.ErrInvalidArgument)
	}

	if td.HasFamily(fd.Name) {
		return api.TableDescriptor{}, fmt.Errorf("%w: family %q in table %s", api.ErrAlreadyExists, fd.Name, td.Name)
	}

	return td.WithFamilies(append(td.Families, fd)), nil
}

// ModifyFamily returns a copy of td with the named family replaced
// wholesale. Fails if no family of that name exists.
func ModifyFamily(td api.TableDescriptor, fd api.FamilyDescriptor) (api.TableDescriptor, error) {
	if !td.HasFamily(fd.Name) {
		return api.TableDescriptor{}, fmt.Errorf("%w: family %q in table %s", api.ErrNotFound, fd.Name, td.Name)
	}

	out := make([]api.FamilyDescriptor, 0, len(td.Families))
	for _, f := range td.Families {
		if f.Name == fd.Name {
			f = fd
		}
		out = append(out, f)
	}

	return td.WithFamilies(out), nil
}

// DeleteFamily returns a copy of td without the named family. Fails if
// no family of that name exists, so deleting twice in a row is
// rejected by the second call.
func DeleteFamily(td api.TableDescriptor, name string) (api.TableDescriptor, error) {
	if !td.HasFamily(name) {
		return api.TableDescriptor{}, fmt.Errorf("%w: family %q in table %s", api.ErrNotFound, name, td.Name)
	}

	out := make([]api.FamilyDescriptor, 0, len(td.Families)-1)
	for _, f := range td.Families {
		if f.Name == name {
			continue
		}
		out = append(out, f)
	}

	return td.WithFamilies(out), nil
}
