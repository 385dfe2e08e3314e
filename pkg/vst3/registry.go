package vst3

import "sync"

// Registry is the process-wide instance table. For every live proxy on the
// native side there is exactly one live object with the same id on the
// foreign side; ids are never reused within a process.
type Registry struct {
	mu      sync.Mutex
	nextID  uint64
	proxies map[uint64]*PluginProxy
}

func NewRegistry() *Registry {
	return &Registry{proxies: make(map[uint64]*PluginProxy)}
}

// AllocateID hands out the next instance id.
func (r *Registry) AllocateID() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return r.nextID
}

// Register inserts a proxy under its id.
func (r *Registry) Register(p *PluginProxy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proxies[p.InstanceID()] = p
}

// Unregister removes a proxy. Idempotent.
func (r *Registry) Unregister(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.proxies, id)
}

// Get looks a proxy up by id.
func (r *Registry) Get(id uint64) *PluginProxy {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.proxies[id]
}

// Count returns the number of live proxies.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.proxies)
}
