package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a mutex-guarded map keyed by user id.  It is
// the fallback backend when Redis is unavailable; state is lost on process
// restart, which the submission flow tolerates.
type MemoryStore struct {
	mu   sync.Mutex
	sess map[int64]Session
}

// NewMemoryStore returns an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sess: make(map[int64]Session)}
}

// Get returns the stored session for the user, or the zero Session when the
// user has none.
func (m *MemoryStore) Get(_ context.Context, userID int64) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sess[userID], nil
}

// Put stores the session for the user, replacing any previous one.
func (m *MemoryStore) Put(_ context.Context, userID int64, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sess[userID] = s
	return nil
}

// Clear removes the user's session.  Clearing an absent session is a no-op.
func (m *MemoryStore) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sess, userID)
	return nil
}
