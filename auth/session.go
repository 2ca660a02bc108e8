package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cduffy/ironclub/store"
)

const sessionKeyPrefix = "session:"

var (
	// ErrSessionNotFound is returned when a session id has no live record.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when a record exists but its expiry has
	// passed. The store's TTL normally removes these first; the explicit
	// check guards against clock or TTL discrepancies.
	ErrSessionExpired = errors.New("session expired")
)

// Session is the server-side record binding a session id to a handle.
type Session struct {
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore creates, fetches, and deletes session records in the
// key-value store under "session:<id>".
type SessionStore struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionStore returns a SessionStore writing sessions with the given TTL.
func NewSessionStore(st store.Store, ttl time.Duration) *SessionStore {
	return &SessionStore{store: st, ttl: ttl, now: time.Now}
}

// TTL returns the configured session lifetime. The cookie Max-Age must
// match it.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create generates a fresh session id and writes the record. Each call
// produces an independent session; concurrent logins for the same handle
// do not interfere.
func (s *SessionStore) Create(ctx context.Context, handle string) (string, Session, error) {
	id, err := newSessionID()
	if err != nil {
		return "", Session{}, err
	}
	now := s.now().UTC()
	sess := Session{
		Handle:    handle,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return "", Session{}, err
	}
	if err := s.store.Put(ctx, sessionKeyPrefix+id, data, s.ttl); err != nil {
		return "", Session{}, fmt.Errorf("storing session: %w", err)
	}
	return id, sess, nil
}

// Get fetches a live session. Absent or TTL-expired records return
// ErrSessionNotFound; records past their recorded expiry return
// ErrSessionExpired. Any other error is an infrastructure failure and must
// not be treated as "not found" by callers.
func (s *SessionStore) Get(ctx context.Context, id string) (Session, error) {
	data, err := s.store.Get(ctx, sessionKeyPrefix+id)
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("fetching session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Corrupt record; indistinguishable from absent for callers.
		return Session{}, ErrSessionNotFound
	}
	if s.now().After(sess.ExpiresAt) {
		_ = s.store.Delete(ctx, sessionKeyPrefix+id)
		return Session{}, ErrSessionExpired
	}
	return sess, nil
}

// Delete removes a session record. Deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, sessionKeyPrefix+id)
}

// newSessionID returns a 256-bit random identifier in base64url form.
func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
