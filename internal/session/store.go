// Package session implements server-side session state keyed by an opaque
// cookie value. Sessions live in process memory only and are never written
// to the database.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"pantrypal/internal/core"
)

const (
	// CookieName is the opaque session cookie.
	CookieName = "session_id"

	// DefaultTTL bounds how long a login lasts without activity.
	DefaultTTL = 24 * time.Hour
)

type entry struct {
	session   core.Session
	expiresAt time.Time
}

// Store is an in-memory TTL session store. Expired entries are reaped by a
// background goroutine; Get also checks expiry so reads never return a
// stale session.
type Store struct {
	mu           sync.Mutex
	ttl          time.Duration
	sessions     map[string]entry
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:         ttl,
		sessions:    make(map[string]entry),
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup()
	return s
}

// Create stores a new session and returns its opaque id.
func (s *Store) Create(sess core.Session) string {
	id := newSessionID()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = entry{session: sess, expiresAt: time.Now().Add(s.ttl)}
	return id
}

// Get returns the session for id, if present and unexpired.
func (s *Store) Get(id string) (core.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return core.Session{}, false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.sessions, id)
		return core.Session{}, false
	}
	return e.session, true
}

// Delete removes a session unconditionally.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live entries, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the cleanup goroutine.
func (s *Store) Close() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *Store) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *Store) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
		}
	}
}

// newSessionID returns 128 bits of hex. Falls back to a timestamp only if
// the system randomness source is broken.
func newSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "sess_" + hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b)
}
