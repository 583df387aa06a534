package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/rv32isim/rv32i-emulator/debugger"
	"github.com/rv32isim/rv32i-emulator/vm"
)

var (
	// ErrSessionNotFound is returned when a session is not found.
	ErrSessionNotFound = errors.New("session not found")
)

// ManagedSession is one active interpreter session, addressable by ID.
type ManagedSession struct {
	ID        string
	Debugger  *debugger.Session
	CreatedAt time.Time
}

// SessionManager owns every active session, each with its own interpreter
// and memory — sessions never share state.
type SessionManager struct {
	sessions    map[string]*ManagedSession
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates an empty session manager.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*ManagedSession),
		broadcaster: broadcaster,
	}
}

// CreateSession allocates a new interpreter session with a unique ID.
func (sm *SessionManager) CreateSession(req SessionCreateRequest) (*ManagedSession, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, err
	}

	memSize := req.MemSize
	if memSize <= 0 {
		memSize = vm.DefaultMemSize
	}

	session := &ManagedSession{
		ID:        id,
		Debugger:  debugger.NewSession(memSize),
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.sessions[id] = session
	return session, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(id string) (*ManagedSession, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, ok := sm.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(id string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(sm.sessions, id)
	return nil
}

// ListSessions returns every active session ID.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count reports the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
