// internal/session/session.go
package session

import (
	"encoding/json"
	"fmt"
	"sync"

	"libraclient/internal/storage"
)

// Role classifies what a signed-in user may do. The remote service owns the
// enumeration; these are the values it emits.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleMember Role = "MEMBER"
)

// User is the identity held for the duration of a session.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Storage record names. SessionRecord holds the serialized session state,
// TokenRecord the raw bearer-token string read by the request interceptor.
const (
	SessionRecord = "auth-storage"
	TokenRecord   = "auth-token"
)

// state is the shape persisted to the session record.
type state struct {
	User          *User `json:"user"`
	Authenticated bool  `json:"authenticated"`
}

// Store is the single in-process point of truth for who is logged in.
// Every mutation writes through to durable storage before returning.
// Invariant: Authenticated() is true exactly when a user is held.
type Store struct {
	mu      sync.Mutex
	storage storage.Store
	user    *User
}

// Open hydrates a store from durable storage. A missing, unreadable, or
// corrupt session record yields an empty, logged-out store: rehydration
// never fails open to an authenticated state nobody set.
func Open(st storage.Store) *Store {
	s := &Store{storage: st}

	raw, err := st.Read(SessionRecord)
	if err != nil {
		return s
	}
	var rec state
	if err := json.Unmarshal(raw, &rec); err != nil {
		return s
	}
	if rec.User == nil || !rec.Authenticated {
		return s
	}
	s.user = rec.User
	return s
}

// SetUser replaces the held user and persists the new state. A nil user
// clears the session. The caller is trusted; no validation is performed.
func (s *Store) SetUser(u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setUserLocked(u)
}

func (s *Store) setUserLocked(u *User) error {
	raw, err := json.Marshal(state{User: u, Authenticated: u != nil})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Write(SessionRecord, raw); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.user = u
	return nil
}

// Logout clears the held user and discards the stored bearer token so the
// request interceptor stops attaching stale credentials.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.setUserLocked(nil); err != nil {
		return err
	}
	return s.storage.Delete(TokenRecord)
}

// Current returns the held user and whether the session is authenticated.
func (s *Store) Current() (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user, s.user != nil
}

// Authenticated reports whether a user is held.
func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// SetToken persists the raw bearer token for the request interceptor.
func (s *Store) SetToken(token string) error {
	if err := s.storage.Write(TokenRecord, []byte(token)); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

// Token reads the current bearer token from durable storage. It is read
// through on every call so token removal takes effect on the next request;
// any failure reads as "no token".
func (s *Store) Token() string {
	raw, err := s.storage.Read(TokenRecord)
	if err != nil {
		return ""
	}
	return string(raw)
}
