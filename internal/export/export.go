// Package export writes point-in-time snapshots of users and policies to
// formats other tools can read: a SQLite database and an XLSX workbook.
// Credentials are never exported.
package export

import (
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Snapshot is the data written by an export.
type Snapshot struct {
	Users    []types.User
	Policies []types.Policy
}

// Result describes a finished export.
type Result struct {
	ID        string
	Path      string
	CreatedAt time.Time
	Users     int
	Policies  int
}

func newResult(path string, snap Snapshot) Result {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return Result{
		ID:        id.String(),
		Path:      path,
		CreatedAt: time.Now().UTC(),
		Users:     len(snap.Users),
		Policies:  len(snap.Policies),
	}
}

// policiesOf splits policies by concrete type, keeping order.
func policiesOf(snap Snapshot) (homes []types.HomePolicy, autos []types.AutoPolicy, lives []types.LifePolicy) {
	for _, p := range snap.Policies {
		switch v := p.(type) {
		case types.HomePolicy:
			homes = append(homes, v)
		case types.AutoPolicy:
			autos = append(autos, v)
		case types.LifePolicy:
			lives = append(lives, v)
		}
	}
	return homes, autos, lives
}
