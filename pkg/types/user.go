package types

import (
	"fmt"
	"strings"
)

// Role is the access profile of a user.
type Role string

// Roles. ADMIN manages users and policies, MANAGEMENT manages policies,
// VIEW only reads.
const (
	RoleAdmin      Role = "ADMIN"
	RoleManagement Role = "MANAGEMENT"
	RoleView       Role = "VIEW"
)

// Roles lists every role in menu order.
var Roles = []Role{RoleAdmin, RoleManagement, RoleView}

// roleAliases maps accepted spellings, including the names written by the
// previous Spanish-language tool, to roles.
var roleAliases = map[string]Role{
	"ADMIN":      RoleAdmin,
	"MANAGEMENT": RoleManagement,
	"GESTION":    RoleManagement,
	"VIEW":       RoleView,
	"CONSULTA":   RoleView,
}

// ParseRole returns the role named by s (case-insensitive, surrounding space
// ignored). Unknown names return ErrInvalidInput.
func ParseRole(s string) (Role, error) {
	r, ok := roleAliases[strings.ToUpper(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("role %q: %w", s, ErrInvalidInput)
	}
	return r, nil
}

// User is an account that can log in. Name is the immutable identity key;
// Credential holds the encrypted password and only changes through
// UserRepository.ChangeCredential.
type User struct {
	Name       string `json:"name"`
	Credential string `json:"-"`
	Role       Role   `json:"role"`
}

func (u User) String() string {
	return fmt.Sprintf("User(name=%s, role=%s)", u.Name, u.Role)
}
