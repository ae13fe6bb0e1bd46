package chat

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned by Store.Get for unknown session IDs.
var ErrSessionNotFound = errors.New("chat: session not found")

// Store holds in-memory chat sessions for one running process, keyed by
// ID. Nothing is persisted; sessions disappear with the process.
type Store struct {
	client Streamer

	mu sync.Mutex
	// +checklocks:mu
	sessions map[string]*Session
}

// NewStore creates an empty session store backed by the given client.
func NewStore(client Streamer) *Store {
	return &Store{
		client:   client,
		sessions: make(map[string]*Session),
	}
}

// Create starts a new session and returns its ID.
func (st *Store) Create() (string, *Session) {
	id := uuid.NewString()
	s := NewSession(st.client)

	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()

	return id, s
}

// Get returns the session with the given ID.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session. Removing an unknown ID is a no-op.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
