package immunity

import (
	"sort"
	"sync"

	"tonearm/internal/trackid"
)

// Registry is a concurrency-safe, grow-only set of immune track keys.
type Registry struct {
	mu      sync.RWMutex
	keys    map[string]struct{}
	display map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		keys:    make(map[string]struct{}),
		display: make(map[string]string),
	}
}

// Ban marks the referenced track immune. Banning an already immune track
// is a no-op; the first recorded display string wins.
func (r *Registry) Ban(ref trackid.Ref) {
	key := ref.Key()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.keys[key]; ok {
		return
	}
	r.keys[key] = struct{}{}
	r.display[key] = ref.Display()
}

// IsBanned reports whether the referenced track is immune.
func (r *Registry) IsBanned(ref trackid.Ref) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.keys[ref.Key()]
	return ok
}

// List returns display strings for all immune tracks, sorted for stable
// chat output.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.display))
	for _, name := range r.display {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of immune tracks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}
