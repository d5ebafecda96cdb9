package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_products"
	"github.com/light-bringer/procat-browse/internal/app/catalog/queries/list_references"
	"github.com/light-bringer/procat-browse/internal/pkg/clock"
)

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry maps session IDs to sessions. Sessions idle for longer than the
// idle timeout are dropped the next time the registry is used.
type Registry struct {
	products    *list_products.Query
	references  *list_references.Query
	clock       clock.Clock
	idleTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry creates an empty registry. A non-positive idleTimeout keeps
// sessions forever.
func NewRegistry(products *list_products.Query, references *list_references.Query, clk clock.Clock, idleTimeout time.Duration) *Registry {
	return &Registry{
		products:    products,
		references:  references,
		clock:       clk,
		idleTimeout: idleTimeout,
		sessions:    make(map[string]*entry),
	}
}

// Acquire returns the live session for id and marks it as used. When id is
// unknown or expired a new session is created; it keeps id if id is a valid
// UUID and gets a fresh one otherwise. created reports whether a new
// session was made.
func (r *Registry) Acquire(id string) (s *Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.sweepLocked(now)

	if e, ok := r.sessions[id]; ok {
		e.lastSeen = now
		return e.session, false
	}

	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	s = New(id, r.products, r.references)
	r.sessions[id] = &entry{session: s, lastSeen: now}
	return s, true
}

// Get returns the live session for id without creating one.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	r.sweepLocked(now)

	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

// Remove drops the session for id.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Sweep drops expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.clock.Now())
}

// Len returns the number of sessions held, expired ones included until the
// next sweep.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) sweepLocked(now time.Time) int {
	if r.idleTimeout <= 0 {
		return 0
	}
	removed := 0
	for id, e := range r.sessions {
		if now.Sub(e.lastSeen) > r.idleTimeout {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
