package types

// UserRepository stores users keyed by name. Both the in-memory and the
// file-backed stores implement it.
type UserRepository interface {
	// Add inserts u. Returns ErrDuplicateIdentity if the name exists.
	Add(u User) error

	// Find returns the user with the given name.
	Find(name string) (User, bool)

	// Remove deletes the user. Returns ErrNotFound if absent.
	Remove(name string) error

	// ChangeCredential replaces the encrypted credential of a user.
	// Returns ErrNotFound if absent.
	ChangeCredential(name, credential string) error

	// All returns every user in insertion order.
	All() []User

	// ByRole returns the users with the given role in insertion order.
	ByRole(role Role) []User
}

// PolicyRepository stores policies keyed by id.
type PolicyRepository interface {
	// Add inserts p. Returns ErrDuplicateIdentity if the id exists.
	Add(p Policy) error

	// Find returns the policy with the given id.
	Find(id int) (Policy, bool)

	// Remove deletes the policy. Returns ErrNotFound if absent.
	Remove(id int) error

	// All returns every policy in insertion order.
	All() []Policy

	// ByVariant returns the policies of one variant in insertion order.
	ByVariant(v Variant) []Policy
}

// Credentials encrypts and verifies passwords. The stores only ever see the
// encrypted form.
type Credentials interface {
	Encrypt(plaintext string) (string, error)
	Verify(plaintext, encrypted string) bool
}

// LoadReport summarizes one initial load of a backing file.
type LoadReport struct {
	Path    string
	Lines   int
	Loaded  int
	Skipped int
}
