// Package inmem is a map-backed persister for tests. It lets tests
// assert that the durable descriptor mirror stayed in sync with the
// master after schema mutations.
package inmem

import (
	"sort"
	"sync"

	"github.com/adammck/tadmin/pkg/api"
)

type Persister struct {
	mu    sync.Mutex
	descs map[api.TableName]api.TableDescriptor
}

func New() *Persister {
	return &Persister{
		descs: map[api.TableName]api.TableDescriptor{},
	}
}

func (p *Persister) GetDescriptors() ([]api.TableDescriptor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]api.TableDescriptor, 0, len(p.descs))
	for _, td := range p.descs {
		out = append(out, td)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name.Less(out[j].Name)
	})

	return out, nil
}

func (p *Persister) PutDescriptor(td api.TableDescriptor) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.descs[td.Name] = td
	return nil
}

func (p *Persister) DeleteDescriptor(name api.TableName) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.descs, name)
	return nil
}

// Get returns the mirrored descriptor for one table, for tests.
func (p *Persister) Get(name api.TableName) (api.TableDescriptor, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	td, ok := p.descs[name]
	return td, ok
}
