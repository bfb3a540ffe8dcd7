package infohub

import "sync"

// Registry hands out one Hub per group, created on first access and kept
// for the lifetime of the process.
type Registry struct {
	mu     sync.Mutex
	groups map[string]*Hub
}

func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*Hub)}
}

func (r *Registry) Get(groupID string) *Hub {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.groups[groupID]
	if !ok {
		h = New(groupID)
		r.groups[groupID] = h
	}
	return h
}
