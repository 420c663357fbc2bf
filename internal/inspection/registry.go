package inspection

import (
	"sync"

	"github.com/google/uuid"
)

// Registry keeps the drafts of all connected operators in memory
type Registry struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*Draft
}

func NewRegistry() *Registry {
	return &Registry{drafts: make(map[uuid.UUID]*Draft)}
}

func (r *Registry) Put(d *Draft) {
	r.mu.Lock()
	r.drafts[d.ID()] = d
	r.mu.Unlock()
}

// Get returns the draft only when it belongs to storeID
func (r *Registry) Get(id uuid.UUID, storeID string) (*Draft, error) {
	r.mu.RLock()
	d, ok := r.drafts[id]
	r.mu.RUnlock()
	if !ok || d.StoreID() != storeID {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	delete(r.drafts, id)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts)
}

// Wait blocks until no draft has a classification in flight
func (r *Registry) Wait() {
	r.mu.RLock()
	drafts := make([]*Draft, 0, len(r.drafts))
	for _, d := range r.drafts {
		drafts = append(drafts, d)
	}
	r.mu.RUnlock()
	for _, d := range drafts {
		d.Wait()
	}
}
