package session

import (
	"sync"
	"time"
)

// Store keeps live sessions by ID. The tool serves one reviewer at a time,
// but each browser request arrives on its own goroutine, so access is still
// guarded.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	maxAge   time.Duration
}

// NewStore creates a session store. Sessions older than maxAge are dropped
// lazily on Put; zero disables expiry.
func NewStore(maxAge time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		maxAge:   maxAge,
	}
}

// Put registers a session.
func (st *Store) Put(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.maxAge > 0 {
		cutoff := time.Now().Add(-st.maxAge)
		for id, old := range st.sessions {
			if old.Created.Before(cutoff) {
				delete(st.sessions, id)
			}
		}
	}
	st.sessions[s.ID] = s
}

// Get returns the session with the given ID, or nil.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}
