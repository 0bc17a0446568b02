package api

import (
	"sort"
)

// TableDescriptor is a table name plus its column families. Family
// names are unique; Families is kept sorted by name so that two
// descriptors with the same contents compare equal. Should be
// immutable after construction; use pkg/schema to derive modified
// copies.
type TableDescriptor struct {
	Name     TableName
	Families []FamilyDescriptor
}

// NewTableDescriptor builds a descriptor from the given families.
// Later duplicates replace earlier ones, like repeated assignment.
func NewTableDescriptor(name TableName, families ...FamilyDescriptor) TableDescriptor {
	byName := map[string]FamilyDescriptor{}
	for _, fd := range families {
		byName[fd.Name] = fd
	}

	out := make([]FamilyDescriptor, 0, len(byName))
	for _, fd := range byName {
		out = append(out, fd)
	}
	sortFamilies(out)

	return TableDescriptor{Name: name, Families: out}
}

// Family returns the family with the given name, if present.
func (td TableDescriptor) Family(name string) (FamilyDescriptor, bool) {
	for _, fd := range td.Families {
		if fd.Name == name {
			return fd, true
		}
	}
	return FamilyDescriptor{}, false
}

func (td TableDescriptor) HasFamily(name string) bool {
	_, ok := td.Family(name)
	return ok
}

// WithFamilies returns a copy of the descriptor with the family set
// replaced wholesale. The input is copied and sorted; the receiver is
// not modified.
func (td TableDescriptor) WithFamilies(families []FamilyDescriptor) TableDescriptor {
	out := make([]FamilyDescriptor, len(families))
	copy(out, families)
	sortFamilies(out)
	td.Families = out
	return td
}

func sortFamilies(fds []FamilyDescriptor) {
	sort.Slice(fds, func(i, j int) bool {
		return fds[i].Name < fds[j].Name
	})
}
