// Package security encrypts and verifies user passwords with bcrypt.
package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

var _ types.Credentials = (*Hasher)(nil)

// MinPasswordLength is the shortest password Encrypt accepts.
const MinPasswordLength = 4

// Hasher implements types.Credentials.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or bcrypt.DefaultCost when cost is
// zero.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d: %w", cost, types.ErrBcryptCost)
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the bcrypt work factor.
func (h *Hasher) Cost() int { return h.cost }

// Encrypt returns the bcrypt hash of plaintext.
func (h *Hasher) Encrypt(plaintext string) (string, error) {
	if len(plaintext) < MinPasswordLength {
		return "", fmt.Errorf("password shorter than %d characters: %w", MinPasswordLength, types.ErrInvalidInput)
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %v: %w", err, types.ErrInvalidInput)
	}
	return string(out), nil
}

// Verify reports whether plaintext matches encrypted. Malformed hashes never
// match.
func (h *Hasher) Verify(plaintext, encrypted string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encrypted), []byte(plaintext)) == nil
}
