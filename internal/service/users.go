// Package service holds the business operations behind the console and the
// command line: authentication, user administration and policy contracts.
package service

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/coverdesk/internal/observability"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Users manages accounts and logins.
type Users struct {
	repo  types.UserRepository
	creds types.Credentials
	log   *observability.Logger
}

// NewUsers returns a Users service over repo.
func NewUsers(repo types.UserRepository, creds types.Credentials, log *observability.Logger) *Users {
	return &Users{repo: repo, creds: creds, log: log}
}

// Login returns the user when name and password match.
func (s *Users) Login(name, password string) (types.User, error) {
	u, ok := s.repo.Find(name)
	if !ok || !s.creds.Verify(password, u.Credential) {
		s.log.Login(name, false)
		return types.User{}, fmt.Errorf("login %q: %w", name, types.ErrInvalidCredentials)
	}
	s.log.Login(name, true)
	return u, nil
}

// Add creates a user with an encrypted password.
func (s *Users) Add(name, password string, role types.Role) (types.User, error) {
	name = strings.TrimSpace(name)
	if err := CheckUserName(name); err != nil {
		return types.User{}, err
	}
	role, err := types.ParseRole(string(role))
	if err != nil {
		return types.User{}, err
	}
	if _, ok := s.repo.Find(name); ok {
		return types.User{}, fmt.Errorf("user %q: %w", name, types.ErrDuplicateIdentity)
	}
	enc, err := s.creds.Encrypt(password)
	if err != nil {
		return types.User{}, err
	}
	u := types.User{Name: name, Credential: enc, Role: role}
	if err := s.repo.Add(u); err != nil {
		return types.User{}, err
	}
	s.log.Mutation("add", "user", name)
	return u, nil
}

// Remove deletes a user. The last ADMIN cannot be removed.
func (s *Users) Remove(name string) error {
	u, ok := s.repo.Find(name)
	if !ok {
		return fmt.Errorf("user %q: %w", name, types.ErrNotFound)
	}
	if u.Role == types.RoleAdmin && len(s.repo.ByRole(types.RoleAdmin)) == 1 {
		return fmt.Errorf("user %q is the last administrator: %w", name, types.ErrInvalidInput)
	}
	if err := s.repo.Remove(name); err != nil {
		return err
	}
	s.log.Mutation("remove", "user", name)
	return nil
}

// ChangePassword replaces the password of the named user.
func (s *Users) ChangePassword(name, password string) error {
	if _, ok := s.repo.Find(name); !ok {
		return fmt.Errorf("user %q: %w", name, types.ErrNotFound)
	}
	enc, err := s.creds.Encrypt(password)
	if err != nil {
		return err
	}
	if err := s.repo.ChangeCredential(name, enc); err != nil {
		return err
	}
	s.log.Mutation("change password", "user", name)
	return nil
}

// Find returns the named user.
func (s *Users) Find(name string) (types.User, bool) { return s.repo.Find(name) }

// All returns every user.
func (s *Users) All() []types.User { return s.repo.All() }

// ByRole returns the users holding role.
func (s *Users) ByRole(role types.Role) []types.User { return s.repo.ByRole(role) }

// HasUsers reports whether any account exists.
func (s *Users) HasUsers() bool { return len(s.repo.All()) > 0 }
