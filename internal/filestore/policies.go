package filestore

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/coverdesk/internal/codec"
	"github.com/mesh-intelligence/coverdesk/internal/counter"
	"github.com/mesh-intelligence/coverdesk/internal/memory"
	"github.com/mesh-intelligence/coverdesk/internal/observability"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

var _ types.PolicyRepository = (*PolicyStore)(nil)

// PolicyStore is a policy repository persisted to a line file.
type PolicyStore struct {
	mu       sync.Mutex
	mem      *memory.PolicyStore
	file     Backing
	registry *counter.Registry
	log      *observability.Logger
}

// NewPolicyStore returns an empty store over file. Load recovers registry
// from the loaded ids; registry may be nil when ids are assigned elsewhere.
func NewPolicyStore(file Backing, registry *counter.Registry, log *observability.Logger) *PolicyStore {
	return &PolicyStore{
		mem:      memory.NewPolicyStore(),
		file:     file,
		registry: registry,
		log:      log.With("path", file.Path()),
	}
}

// Path returns the backing file path.
func (s *PolicyStore) Path() string { return s.file.Path() }

// Add appends the policy line to the file, then records p in memory. An id
// already stored is rejected with ErrDuplicateIdentity before any write.
func (s *PolicyStore) Add(p types.Policy) error {
	if p == nil {
		return fmt.Errorf("add nil policy: %w", types.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.mem.Find(p.Base().ID); dup {
		return fmt.Errorf("policy %d: %w", p.Base().ID, types.ErrDuplicateIdentity)
	}

	line, err := codec.Encode(p)
	if err != nil {
		return err
	}
	if err := s.file.AppendLine(line); err != nil {
		s.log.StoreFailure("append", s.file.Path(), err)
		return err
	}
	return s.mem.Add(p)
}

// Find returns the policy with the given id.
func (s *PolicyStore) Find(id int) (types.Policy, bool) { return s.mem.Find(id) }

// All returns every policy in file order.
func (s *PolicyStore) All() []types.Policy { return s.mem.All() }

// ByVariant returns the policies of variant v.
func (s *PolicyStore) ByVariant(v types.Variant) []types.Policy { return s.mem.ByVariant(v) }

// Remove rewrites the file without the policy, then drops it from memory.
func (s *PolicyStore) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mem.Find(id); !ok {
		return fmt.Errorf("policy %d: %w", id, types.ErrNotFound)
	}
	var lines []string
	for _, p := range s.mem.All() {
		if p.Base().ID == id {
			continue
		}
		line, err := codec.Encode(p)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}
	if err := s.file.WriteLines(lines); err != nil {
		s.log.StoreFailure("remove", s.file.Path(), err)
		return err
	}
	return s.mem.Remove(id)
}
