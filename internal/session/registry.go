package session

import "sync"

// Registry hands out one Manager per session ID. The browser original had
// a single implicit session; a shared server needs a map of them.
type Registry struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Manager
}

func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:     opts,
		sessions: make(map[string]*Manager),
	}
}

// Get returns the Manager for the session, restoring it from storage on
// first sight.
func (r *Registry) Get(id string) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.sessions[id]; ok {
		return m
	}
	m := New(id, r.opts)
	m.Restore()
	r.sessions[id] = m
	return m
}
