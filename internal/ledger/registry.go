package ledger

import "sync"

// Registry hands out one Ledger per group, created on first access and
// kept for the lifetime of the process. The registry lock only guards the
// map; each Ledger does its own locking.
type Registry struct {
	mu     sync.Mutex
	groups map[string]*Ledger
}

func NewRegistry() *Registry {
	return &Registry{groups: make(map[string]*Ledger)}
}

func (r *Registry) Get(groupID string) *Ledger {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.groups[groupID]
	if !ok {
		l = New(groupID)
		r.groups[groupID] = l
	}
	return l
}
