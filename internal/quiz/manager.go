package quiz

import "sync"

// Manager hands out one session per user for the HTTP surface. Sessions are
// created lazily in the Setup state and live for the process lifetime; a
// single browser tab per user drives a single session.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	loader   Loader
	saver    AttemptSaver
}

// NewManager creates a session manager
func NewManager(loader Loader, saver AttemptSaver) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		loader:   loader,
		saver:    saver,
	}
}

// Session returns the user's session, creating it on first use
func (m *Manager) Session(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[userID]
	if !ok {
		session = NewSession(userID, m.loader, m.saver)
		m.sessions[userID] = session
	}
	return session
}
