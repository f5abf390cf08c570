package datastore

import (
	"sort"
	"sync"

	"github.com/code19m/errx"
	"github.com/samber/lo"
)

// Registry is an explicit mapping of named Datastore instances.
//
// It is constructed and owned by the process composition root and handed to
// consumers as a reference; there is deliberately no package-level registry
// and no implicit global state.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]*Datastore
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Datastore)}
}

// Register adds ds under name. Registering an existing name is an error;
// replacing an instance must be an explicit Deregister + Register.
func (r *Registry) Register(name string, ds *Datastore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.stores[name]; ok {
		return errx.New(
			"datastore already registered",
			errx.WithCode(CodeDuplicateStore),
			errx.WithType(errx.T_Conflict),
			errx.WithDetails(errx.D{"name": name}),
		)
	}
	r.stores[name] = ds
	return nil
}

// Deregister removes the named instance. No-op if absent.
func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.stores, name)
}

// Lookup returns the named instance or a CodeStoreNotFound error.
func (r *Registry) Lookup(name string) (*Datastore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ds, ok := r.stores[name]
	if !ok {
		return nil, errx.New(
			"datastore not registered",
			errx.WithCode(CodeStoreNotFound),
			errx.WithType(errx.T_NotFound),
			errx.WithDetails(errx.D{"name": name}),
		)
	}
	return ds, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.stores)
	sort.Strings(names)
	return names
}
