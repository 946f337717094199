// Package memory provides the in-memory user and policy stores. They keep
// records in insertion order and are used directly in simulation mode and as
// the cache behind the file-backed stores.
package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Compile-time interface checks.
var (
	_ types.UserRepository   = (*UserStore)(nil)
	_ types.PolicyRepository = (*PolicyStore)(nil)
)

// UserStore is an ordered, name-unique collection of users.
type UserStore struct {
	mu    sync.RWMutex
	users []types.User
}

// NewUserStore returns an empty user store.
func NewUserStore() *UserStore {
	return &UserStore{}
}

// Add appends u. Returns ErrDuplicateIdentity if a user with the same name
// is already stored.
func (s *UserStore) Add(u types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(u.Name) >= 0 {
		return fmt.Errorf("user %q: %w", u.Name, types.ErrDuplicateIdentity)
	}
	s.users = append(s.users, u)
	return nil
}

// Find returns the user with the given name.
func (s *UserStore) Find(name string) (types.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(name); i >= 0 {
		return s.users[i], true
	}
	return types.User{}, false
}

// Remove deletes the named user.
func (s *UserStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(name)
	if i < 0 {
		return fmt.Errorf("user %q: %w", name, types.ErrNotFound)
	}
	s.users = slices.Delete(s.users, i, i+1)
	return nil
}

// ChangeCredential replaces the credential of the named user.
func (s *UserStore) ChangeCredential(name, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(name)
	if i < 0 {
		return fmt.Errorf("user %q: %w", name, types.ErrNotFound)
	}
	s.users[i].Credential = credential
	return nil
}

// All returns a copy of every user in insertion order.
func (s *UserStore) All() []types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// ByRole returns the users holding role, in insertion order.
func (s *UserStore) ByRole(role types.Role) []types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.User
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out
}

func (s *UserStore) indexLocked(name string) int {
	return slices.IndexFunc(s.users, func(u types.User) bool { return u.Name == name })
}
