package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionState holds the transient review state of one signed-in
// verifier: the project or request they have opened and the note being
// drafted. Nothing here is persisted; abandoning a selection before
// submitting has no effect on the store.
type SessionState struct {
	SelectedProjectID *uuid.UUID `json:"selected_project_id,omitempty"`
	SelectedRequestID *uuid.UUID `json:"selected_request_id,omitempty"`
	DraftNote         string     `json:"draft_note"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SessionStore keeps per-profile session state in memory. Each session
// is owned by a single interactive user; the lock only guards the map
// against concurrent sessions of different users.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*SessionState
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]*SessionState)}
}

// Get returns the session state for a profile, creating it if absent.
func (s *SessionStore) Get(profileID uuid.UUID) SessionState {
	s.mu.RLock()
	state, ok := s.sessions[profileID]
	s.mu.RUnlock()
	if !ok {
		return SessionState{}
	}
	return *state
}

// Update replaces the session state for a profile.
func (s *SessionStore) Update(profileID uuid.UUID, state SessionState) SessionState {
	state.UpdatedAt = time.Now()
	s.mu.Lock()
	s.sessions[profileID] = &state
	s.mu.Unlock()
	return state
}

// Clear drops the session state for a profile, e.g. after a decision has
// been submitted and the lists reloaded.
func (s *SessionStore) Clear(profileID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, profileID)
	s.mu.Unlock()
}
