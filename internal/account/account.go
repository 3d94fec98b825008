// Package account is the local user-account store backing the login and
// registration screens. It mirrors the mobile platform's key-value blob
// storage: all users live as one flat JSON list under a single key, and the
// signed-in user under a separate session key. No indexing, no concurrency
// control beyond a process-local mutex — a single-writer mobile client is
// assumed.
package account

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

const (
	usersKey   = "users"
	sessionKey = "currentUser"
)

// User is one account record.
type User struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

var (
	// ErrEmailTaken is returned by Register for a duplicate email.
	ErrEmailTaken = errors.New("account: email already registered")

	// ErrInvalidCredentials is returned by Authenticate on a failed match.
	ErrInvalidCredentials = errors.New("account: invalid email or password")
)

// Storage is the narrow key-value blob interface the store persists through.
// The file-backed implementation lives in storage.go; tests use an in-memory
// map.
type Storage interface {
	// Get returns the blob for key, with ok=false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Store implements register/authenticate/session over a Storage.
type Store struct {
	mu      sync.Mutex
	storage Storage
}

// NewStore wraps a Storage.
func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Register appends the user to the flat list and signs them in. Fails with
// ErrEmailTaken if the email is already present.
func (s *Store) Register(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}

	for _, existing := range users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}

	users = append(users, u)
	if err := s.saveUsers(users); err != nil {
		return err
	}
	return s.setSession(u)
}

// Authenticate matches email+password against the stored list and, on
// success, records the user as the current session.
func (s *Store) Authenticate(email, password string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return User{}, err
	}

	for _, u := range users {
		if u.Email == email && u.Password == password {
			if err := s.setSession(u); err != nil {
				return User{}, err
			}
			return u, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// CurrentSession returns the signed-in user, with ok=false when nobody is
// signed in.
func (s *Store) CurrentSession() (User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.storage.Get(sessionKey)
	if err != nil {
		return User{}, false, fmt.Errorf("account: read session: %w", err)
	}
	if !ok {
		return User{}, false, nil
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, false, fmt.Errorf("account: decode session: %w", err)
	}
	return u, true, nil
}

// ClearSession signs the current user out. Clearing an absent session is not
// an error.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.Delete(sessionKey)
}

func (s *Store) loadUsers() ([]User, error) {
	raw, ok, err := s.storage.Get(usersKey)
	if err != nil {
		return nil, fmt.Errorf("account: read users: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("account: decode users: %w", err)
	}
	return users, nil
}

func (s *Store) saveUsers(users []User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("account: encode users: %w", err)
	}
	if err := s.storage.Set(usersKey, raw); err != nil {
		return fmt.Errorf("account: write users: %w", err)
	}
	return nil
}

func (s *Store) setSession(u User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("account: encode session: %w", err)
	}
	if err := s.storage.Set(sessionKey, raw); err != nil {
		return fmt.Errorf("account: write session: %w", err)
	}
	return nil
}
