package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coverdesk/internal/app"
	"github.com/mesh-intelligence/coverdesk/internal/observability"
	"github.com/mesh-intelligence/coverdesk/internal/security"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// newLogger builds the session logger from the resolved settings.
func newLogger(s settings, w io.Writer) *observability.Logger {
	return observability.NewLogger("cli", observability.Options{
		Level:  s.LogLevel,
		Format: s.LogFormat,
		Writer: w,
	})
}

// openSession builds a session for a scripting command. Commands run in
// file mode unless memory mode is configured explicitly. Unlike the
// interactive console, an unreadable backing file fails the command.
func openSession(s settings, log *observability.Logger) (*app.Session, error) {
	mode := s.Mode
	if mode == "" {
		mode = types.ModeFile
	}
	return openMode(s, mode, log, true)
}

func openMode(s settings, mode string, log *observability.Logger, strict bool) (*app.Session, error) {
	hasher, err := security.NewHasher(s.BcryptCost)
	if err != nil {
		return nil, err
	}
	log.Debug("opening session", "mode", mode, "bcrypt_cost", hasher.Cost())
	sess, err := app.Open(app.SessionConfig{
		Mode:         mode,
		UsersPath:    s.usersPath(),
		PoliciesPath: s.policiesPath(),
		Credentials:  hasher,
		Logger:       log,
	})
	if err != nil {
		return nil, err
	}
	if strict {
		for _, r := range sess.Loads {
			if !r.Loaded() && !r.Empty() {
				return nil, r.Err
			}
		}
	}
	return sess, nil
}

// cmdEnv carries what a scripting command needs.
type cmdEnv struct {
	settings settings
	sess     *app.Session
	log      *observability.Logger
	out      io.Writer
}

// withSession resolves settings, opens a session and runs fn with it.
func withSession(cmd *cobra.Command, flags *rootFlags, fn func(*cmdEnv) error) error {
	s, err := resolveSettings(flags)
	if err != nil {
		return err
	}
	log := newLogger(s, cmd.ErrOrStderr()).With("command", cmd.CommandPath())
	sess, err := openSession(s, log)
	if err != nil {
		return err
	}
	return fn(&cmdEnv{settings: s, sess: sess, log: log, out: cmd.OutOrStdout()})
}
