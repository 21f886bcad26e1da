package challenge

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds the attempt of every open challenge page, keyed by a view id
// handed to the page. Reloading the page opens a fresh attempt.
type Registry struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	attempts map[string]entry
}

type entry struct {
	attempt   *Attempt
	subjectID string
	expires   time.Time
}

func NewRegistry(ttl time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{ttl: ttl, now: now, attempts: make(map[string]entry)}
}

func (r *Registry) Open(subjectID string, a *Attempt) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.attempts[id] = entry{attempt: a, subjectID: subjectID, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()
	return id
}

// Get returns the attempt only to the viewer that opened it.
func (r *Registry) Get(id, subjectID string) (*Attempt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.attempts[id]
	if !ok || e.subjectID != subjectID || !r.now().Before(e.expires) {
		return nil, false
	}
	return e.attempt, true
}

func (r *Registry) Close(id string) {
	r.mu.Lock()
	e, ok := r.attempts[id]
	delete(r.attempts, id)
	r.mu.Unlock()
	if ok {
		e.attempt.Stop()
	}
}

// Sweep drops expired attempts and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	var expired []*Attempt

	r.mu.Lock()
	for id, e := range r.attempts {
		if !now.Before(e.expires) {
			expired = append(expired, e.attempt)
			delete(r.attempts, id)
		}
	}
	r.mu.Unlock()

	for _, a := range expired {
		a.Stop()
	}
	return len(expired)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}
