package persister

import "github.com/adammck/tadmin/pkg/api"

// Persister is the durable mirror of table descriptors. The master
// writes it through the same path as every schema mutation, so a
// re-read from here must always agree with the master's own answer.
type Persister interface {

	// GetDescriptors returns the latest snapshot of all known table
	// descriptors. It's called once, at master startup.
	GetDescriptors() ([]api.TableDescriptor, error)

	// PutDescriptor writes one descriptor, replacing any previous
	// version.
	PutDescriptor(api.TableDescriptor) error

	// DeleteDescriptor removes the descriptor for the given table.
	// Removing an absent descriptor is not an error.
	DeleteDescriptor(api.TableName) error
}
