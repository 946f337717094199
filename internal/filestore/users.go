package filestore

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/coverdesk/internal/codec"
	"github.com/mesh-intelligence/coverdesk/internal/memory"
	"github.com/mesh-intelligence/coverdesk/internal/observability"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

var _ types.UserRepository = (*UserStore)(nil)

// UserStore is a user repository persisted to a line file. Reads are
// served from memory; every mutation reaches the file before memory.
type UserStore struct {
	mu   sync.Mutex
	mem  *memory.UserStore
	file Backing
	log  *observability.Logger
}

// NewUserStore returns an empty store over file. A nil logger discards
// output.
func NewUserStore(file Backing, log *observability.Logger) *UserStore {
	return &UserStore{
		mem:  memory.NewUserStore(),
		file: file,
		log:  log.With("path", file.Path()),
	}
}

// Path returns the backing file path.
func (s *UserStore) Path() string { return s.file.Path() }

// Add appends the user line to the file, then records u in memory.
func (s *UserStore) Add(u types.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mem.Find(u.Name); ok {
		return fmt.Errorf("user %q: %w", u.Name, types.ErrDuplicateIdentity)
	}
	line, err := codec.EncodeUser(u)
	if err != nil {
		return err
	}
	if err := s.file.AppendLine(line); err != nil {
		s.log.StoreFailure("append", s.file.Path(), err)
		return err
	}
	return s.mem.Add(u)
}

// Find returns the named user.
func (s *UserStore) Find(name string) (types.User, bool) { return s.mem.Find(name) }

// All returns every user in file order.
func (s *UserStore) All() []types.User { return s.mem.All() }

// ByRole returns the users holding role.
func (s *UserStore) ByRole(role types.Role) []types.User { return s.mem.ByRole(role) }

// Remove rewrites the file without the named user, then drops it from
// memory.
func (s *UserStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mem.Find(name); !ok {
		return fmt.Errorf("user %q: %w", name, types.ErrNotFound)
	}
	var next []types.User
	for _, u := range s.mem.All() {
		if u.Name != name {
			next = append(next, u)
		}
	}
	if err := s.rewrite("remove", next); err != nil {
		return err
	}
	return s.mem.Remove(name)
}

// ChangeCredential rewrites the file with the new credential, then updates
// memory.
func (s *UserStore) ChangeCredential(name, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mem.Find(name); !ok {
		return fmt.Errorf("user %q: %w", name, types.ErrNotFound)
	}
	next := s.mem.All()
	for i := range next {
		if next[i].Name == name {
			next[i].Credential = credential
		}
	}
	if err := s.rewrite("change credential", next); err != nil {
		return err
	}
	return s.mem.ChangeCredential(name, credential)
}

func (s *UserStore) rewrite(op string, users []types.User) error {
	lines := make([]string, 0, len(users))
	for _, u := range users {
		line, err := codec.EncodeUser(u)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	if err := s.file.WriteLines(lines); err != nil {
		s.log.StoreFailure(op, s.file.Path(), err)
		return err
	}
	return nil
}
