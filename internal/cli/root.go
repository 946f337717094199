// Package cli implements the coverdesk command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	mode      string
	jsonMode  bool
}

// NewRootCmd creates the top-level "coverdesk" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "coverdesk",
		Short: "Insurance policy and user desk",
		Long: "Coverdesk keeps users and insurance policies (home, auto, life)\n" +
			"in plain text files, with an interactive console and scripting commands.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: .coverdesk)")
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .coverdesk-data)")
	root.PersistentFlags().StringVar(&flags.mode, "mode", "", "storage mode: memory or file (default: from config)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd(flags))
	root.AddCommand(newInitCmd(flags))
	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newUserCmd(flags))
	root.AddCommand(newPolicyCmd(flags))
	root.AddCommand(newExportCmd(flags))

	return root
}

// Execute runs the root command with os.Args and returns the process exit
// code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "coverdesk:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps an error to a process exit code. Storage and configuration
// failures are system errors; anything else is the caller's mistake.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrIO),
		errors.Is(err, types.ErrModeUnknown),
		errors.Is(err, types.ErrLogFormatUnknown),
		errors.Is(err, types.ErrLogLevelUnknown),
		errors.Is(err, types.ErrBcryptCost),
		errors.Is(err, errConfig):
		return exitSysError
	default:
		return exitUserError
	}
}
