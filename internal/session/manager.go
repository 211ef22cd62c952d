// Package session implements the server-side session store: opaque session
// identifiers mapped to an authenticated user, with a per-session CSRF
// token. All state lives in process memory; losing it logs everyone out,
// which is the accepted trade-off for this single-instance application.
package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// csrfTokenBytes is the entropy of a CSRF token (256 bits).
const csrfTokenBytes = 32

// Session is the server-side state for one authenticated browser.
type Session struct {
	// ID is the opaque identifier handed to the client in a cookie.
	ID string
	// UserID is the authenticated user.
	UserID int64
	// ExpiresAt is the absolute expiry time.
	ExpiresAt time.Time

	// csrfToken is created lazily and lives for the whole session.
	csrfToken string
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewManager creates a Manager whose sessions expire after ttl.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Login establishes a new session for the user and returns it. Each login
// produces a fresh session id; callers replacing an existing session should
// Logout the old id first so re-login overwrites prior state.
func (m *Manager) Login(userID int64) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Logout removes the session state entirely. Unknown ids are a no-op.
func (m *Manager) Logout(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Get returns the session for id, or nil if it is unknown or expired.
// Expired sessions are removed on access.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil
	}
	if time.Now().After(s.ExpiresAt) {
		delete(m.sessions, id)
		return nil
	}
	return s
}

// CSRFToken returns the session's CSRF token, generating and persisting it
// on first use. It returns ok=false when the session is unknown or expired.
// The token is stable for the session's lifetime.
func (m *Manager) CSRFToken(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || time.Now().After(s.ExpiresAt) {
		delete(m.sessions, id)
		return "", false
	}
	if s.csrfToken == "" {
		buf := make([]byte, csrfTokenBytes)
		if _, err := rand.Read(buf); err != nil {
			// crypto/rand never fails on supported platforms.
			panic(err)
		}
		s.csrfToken = hex.EncodeToString(buf)
	}
	return s.csrfToken, true
}

// VerifyCSRF compares the presented token against the session's token in
// constant time. A session without a token yet, an unknown session, or an
// empty presented token all fail.
func (m *Manager) VerifyCSRF(id, presented string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	var stored string
	if ok {
		stored = s.csrfToken
	}
	m.mu.Unlock()

	if stored == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// Len reports the number of stored sessions, expired ones included.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartJanitor sweeps expired sessions at the given interval until ctx is
// cancelled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := m.sweep(time.Now())
				if removed > 0 {
					log.Info("swept expired sessions", zap.Int("removed", removed))
				}
			}
		}
	}()
}

func (m *Manager) sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if now.After(s.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
