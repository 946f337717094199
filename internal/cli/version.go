package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coverdesk/pkg/coverdesk"
)

func newVersionCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the coverdesk version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"version": coverdesk.Version,
					"module":  coverdesk.ModulePath,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "coverdesk v%s\nmodule: %s\n", coverdesk.Version, coverdesk.ModulePath)
			return nil
		},
	}
}
