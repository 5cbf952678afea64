// Package runtime sequences transfer jobs: it owns the per-owner
// cancellation registry and the job state machine, without containing any
// wire-protocol logic.
package runtime

import (
	"sync"

	"transfer-lab/domain"
)

// Registry maps each owner to the cancel token of their single active job.
// Each key's lifecycle is owned by exactly one job at a time: insert on
// submission, remove on terminal transition.
type Registry struct {
	mu     sync.Mutex
	tokens map[string]*domain.CancelToken
}

func NewRegistry() *Registry {
	return &Registry{tokens: make(map[string]*domain.CancelToken)}
}

// Replace installs a fresh token for the owner and returns it. A prior
// active token is cancelled as a side effect: a new submission supersedes
// the running job rather than leaving two live local files for one owner.
func (r *Registry) Replace(ownerID string) *domain.CancelToken {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prior, ok := r.tokens[ownerID]; ok {
		prior.Cancel()
	}
	token := domain.NewCancelToken()
	r.tokens[ownerID] = token
	return token
}

// Cancel flips the owner's active token. Returns false when the owner has
// no job in flight.
func (r *Registry) Cancel(ownerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[ownerID]
	if !ok {
		return false
	}
	token.Cancel()
	return true
}

// Release removes the owner's entry, but only while token is still the
// installed one: a terminal job must not evict the handle of the job that
// superseded it.
func (r *Registry) Release(ownerID string, token *domain.CancelToken) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.tokens[ownerID]; ok && current == token {
		delete(r.tokens, ownerID)
	}
}

// Active reports whether the owner currently holds a live handle.
func (r *Registry) Active(ownerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[ownerID]
	return ok
}
