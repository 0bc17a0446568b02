package api

// Defaults for family attributes, applied by NewFamily.
const (
	DefaultBlockSize   = 64 * 1024
	DefaultMaxVersions = 1
)

// FamilyDescriptor describes one column family within a table. Values
// are copy-on-write: the With* helpers return modified copies, and
// nothing ever mutates a descriptor in place, so they're safe to share.
type FamilyDescriptor struct {
	Name        string
	BlockSize   int
	MaxVersions int

	// Seconds until cells expire. Zero means never.
	TTL int
}

func NewFamily(name string) FamilyDescriptor {
	return FamilyDescriptor{
		Name:        name,
		BlockSize:   DefaultBlockSize,
		MaxVersions: DefaultMaxVersions,
	}
}

func (fd FamilyDescriptor) WithBlockSize(n int) FamilyDescriptor {
	fd.BlockSize = n
	return fd
}

func (fd FamilyDescriptor) WithMaxVersions(n int) FamilyDescriptor {
	fd.MaxVersions = n
	return fd
}

func (fd FamilyDescriptor) WithTTL(seconds int) FamilyDescriptor {
	fd.TTL = seconds
	return fd
}
