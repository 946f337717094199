package cli

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coverdesk/internal/app"
	"github.com/mesh-intelligence/coverdesk/internal/console"
)

func newRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive console",
		Long: "Start an interactive session: choose the storage mode if none is\n" +
			"configured, load the data files, log in and use the menus of your role.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(flags)
			if err != nil {
				return err
			}

			con := console.New(cmd.InOrStdin(), cmd.OutOrStdout())
			if cmd.InOrStdin() == os.Stdin && cmd.OutOrStdout() == os.Stdout {
				con = console.NewStd()
			}

			mode := s.Mode
			if mode == "" {
				if mode, err = app.SelectMode(con); err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return err
				}
			}
			sess, err := openMode(s, mode, newLogger(s, cmd.ErrOrStderr()), false)
			if err != nil {
				return err
			}
			return app.Run(con, sess)
		},
	}
}
