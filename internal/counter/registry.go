// Package counter assigns policy ids. Each variant has its own counter that
// starts at the variant's id base, so id ranges never overlap and a policy's
// variant can be read from its id.
package counter

import (
	"fmt"
	"sync"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Registry holds the last assigned id of every policy variant. A registry is
// created per session and handed to whatever assigns or recovers ids.
type Registry struct {
	mu   sync.Mutex
	last map[types.Variant]int
}

// New returns a registry with every variant at its base.
func New() *Registry {
	r := &Registry{last: make(map[types.Variant]int, len(types.Variants))}
	for _, v := range types.Variants {
		r.last[v] = types.IDBase(v)
	}
	return r
}

// Next increments the counter of v and returns the new id.
func (r *Registry) Next(v types.Variant) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	last, ok := r.last[v]
	if !ok {
		return 0, fmt.Errorf("next id for %q: %w", v, types.ErrUnknownVariant)
	}
	last++
	r.last[v] = last
	return last, nil
}

// Current returns the last assigned id of v without incrementing.
func (r *Registry) Current(v types.Variant) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last[v]
}

// Recover sets every variant's counter to the highest id observed among
// policies of that variant. Variants with no policies keep their value, and
// ids outside a variant's range are ignored.
// Call it once after a load, with the full set of loaded policies.
func (r *Registry) Recover(policies []types.Policy) {
	highest := make(map[types.Variant]int)
	for _, p := range policies {
		v := p.Variant()
		if id := p.Base().ID; types.IDInRange(v, id) && id > highest[v] {
			highest[v] = id
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for v, id := range highest {
		if _, ok := r.last[v]; ok {
			r.last[v] = id
		}
	}
}
