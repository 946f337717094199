package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

func newInitCmd(flags *rootFlags) *cobra.Command {
	var admin, password string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize coverdesk configuration and data files",
		Long: "Create the configuration directory with a default config.yaml, the data\n" +
			"directory and empty users and policies files. With --admin, also create\n" +
			"the first ADMIN user.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags, admin, password)
		},
	}
	cmd.Flags().StringVar(&admin, "admin", "", "name of an initial ADMIN user to create")
	cmd.Flags().StringVar(&password, "password", "", "password of the initial ADMIN user")
	return cmd
}

func runInit(cmd *cobra.Command, flags *rootFlags, admin, password string) error {
	if admin != "" && password == "" {
		return fmt.Errorf("--admin requires --password: %w", types.ErrInvalidInput)
	}
	s, err := resolveSettings(flags)
	if err != nil {
		return err
	}

	for _, path := range []string{s.usersPath(), s.policiesPath()} {
		if err := touch(path); err != nil {
			return err
		}
	}

	if admin != "" {
		log := newLogger(s, cmd.ErrOrStderr())
		sess, err := openMode(s, types.ModeFile, log, true)
		if err != nil {
			return err
		}
		if _, err := sess.Users.Add(admin, password, types.RoleAdmin); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if flags.jsonMode {
		return writeJSON(out, map[string]string{
			"config_dir":    s.ConfigDir,
			"data_dir":      s.DataDir,
			"users_file":    s.usersPath(),
			"policies_file": s.policiesPath(),
		})
	}
	fmt.Fprintf(out, "coverdesk initialized\nconfig: %s\ndata:   %s\n", s.ConfigDir, s.DataDir)
	if admin != "" {
		fmt.Fprintf(out, "created ADMIN user %s\n", admin)
	}
	return nil
}

// touch creates path and its parent directories if they do not exist.
func touch(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w: %w", types.ErrIO, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w: %w", path, types.ErrIO, err)
	}
	return f.Close()
}
