// Package app wires stores and services into a session and runs the
// interactive console application on top of it.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/coverdesk/internal/codec"
	"github.com/mesh-intelligence/coverdesk/internal/counter"
	"github.com/mesh-intelligence/coverdesk/internal/filestore"
	"github.com/mesh-intelligence/coverdesk/internal/memory"
	"github.com/mesh-intelligence/coverdesk/internal/observability"
	"github.com/mesh-intelligence/coverdesk/internal/service"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// SessionConfig selects the storage mode and backing files of a session.
type SessionConfig struct {
	Mode         string
	UsersPath    string
	PoliciesPath string
	Credentials  types.Credentials
	Logger       *observability.Logger
}

// LoadResult is the outcome of loading one backing file.
type LoadResult struct {
	Entity string
	Report types.LoadReport
	Err    error
}

// Loaded reports whether at least one record was read.
func (r LoadResult) Loaded() bool { return r.Err == nil }

// Empty reports whether the file was absent or had no usable records, as
// opposed to being unreadable.
func (r LoadResult) Empty() bool { return errors.Is(r.Err, types.ErrNothingLoaded) }

// Session holds the services of one run.
type Session struct {
	Mode     string
	Users    *service.Users
	Policies *service.Policies
	Loads    []LoadResult
}

// Open builds a session. In file mode the data directories are created and
// both files are loaded. Load failures are reported in Loads and do not fail
// Open; the session continues with whatever was read.
func Open(cfg SessionConfig) (*Session, error) {
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("session without credentials: %w", types.ErrInvalidInput)
	}
	log := cfg.Logger
	registry := counter.New()

	switch cfg.Mode {
	case types.ModeMemory:
		return &Session{
			Mode:     cfg.Mode,
			Users:    service.NewUsers(memory.NewUserStore(), cfg.Credentials, log.Component("users")),
			Policies: service.NewPolicies(memory.NewPolicyStore(), registry, log.Component("policies")),
		}, nil

	case types.ModeFile:
		for _, p := range []string{cfg.UsersPath, cfg.PoliciesPath} {
			if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
				return nil, fmt.Errorf("creating data directory for %s: %w: %w", p, types.ErrIO, err)
			}
		}
		storeLog := log.Component("filestore")
		users := filestore.NewUserStore(filestore.NewLineFile(cfg.UsersPath), storeLog)
		policies := filestore.NewPolicyStore(filestore.NewLineFile(cfg.PoliciesPath), registry, storeLog)

		s := &Session{
			Mode:     cfg.Mode,
			Users:    service.NewUsers(users, cfg.Credentials, log.Component("users")),
			Policies: service.NewPolicies(policies, registry, log.Component("policies")),
		}
		ur, uerr := users.Load()
		pr, perr := policies.Load(codec.PolicyDecoders())
		s.Loads = []LoadResult{
			{Entity: "users", Report: ur, Err: uerr},
			{Entity: "policies", Report: pr, Err: perr},
		}
		return s, nil

	default:
		return nil, fmt.Errorf("mode %q: %w", cfg.Mode, types.ErrModeUnknown)
	}
}
