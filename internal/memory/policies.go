package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// PolicyStore is an ordered collection of policies keyed by id.
type PolicyStore struct {
	mu       sync.RWMutex
	policies []types.Policy
}

// NewPolicyStore returns an empty policy store.
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{}
}

// Add appends p. Returns ErrDuplicateIdentity if its id is already stored.
func (s *PolicyStore) Add(p types.Policy) error {
	if p == nil {
		return fmt.Errorf("add nil policy: %w", types.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(p.Base().ID) >= 0 {
		return fmt.Errorf("policy %d: %w", p.Base().ID, types.ErrDuplicateIdentity)
	}
	s.policies = append(s.policies, p)
	return nil
}

// Find returns the policy with the given id.
func (s *PolicyStore) Find(id int) (types.Policy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(id); i >= 0 {
		return s.policies[i], true
	}
	return nil, false
}

// Remove deletes the policy with the given id.
func (s *PolicyStore) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("policy %d: %w", id, types.ErrNotFound)
	}
	s.policies = slices.Delete(s.policies, i, i+1)
	return nil
}

// All returns a copy of every policy in insertion order.
func (s *PolicyStore) All() []types.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.policies)
}

// ByVariant returns the policies of variant v in insertion order.
func (s *PolicyStore) ByVariant(v types.Variant) []types.Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.Policy
	for _, p := range s.policies {
		if p.Variant() == v {
			out = append(out, p)
		}
	}
	return out
}


func (s *PolicyStore) indexLocked(id int) int {
	return slices.IndexFunc(s.policies, func(p types.Policy) bool { return p.Base().ID == id })
}
