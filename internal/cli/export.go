package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coverdesk/internal/export"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export users and policies to other formats",
		Long: "Write a snapshot of every user and policy. Credentials are never\n" +
			"exported.",
	}
	cmd.AddCommand(newExportFormatCmd(flags, "sqlite", "coverdesk.db", "Export to a SQLite database",
		func(cmd *cobra.Command, path string, snap export.Snapshot) (export.Result, error) {
			return export.SQLite(cmd.Context(), path, snap)
		}))
	cmd.AddCommand(newExportFormatCmd(flags, "xlsx", "coverdesk.xlsx", "Export to an XLSX workbook",
		func(_ *cobra.Command, path string, snap export.Snapshot) (export.Result, error) {
			return export.XLSX(path, snap)
		}))
	return cmd
}

type exportFunc func(cmd *cobra.Command, path string, snap export.Snapshot) (export.Result, error)

func newExportFormatCmd(flags *rootFlags, use, defaultName, short string, write exportFunc) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(env *cmdEnv) error {
				path := out
				if path == "" {
					path = filepath.Join(env.settings.DataDir, defaultName)
				}
				res, err := write(cmd, path, export.Snapshot{
					Users:    env.sess.Users.All(),
					Policies: env.sess.Policies.All(),
				})
				if err != nil {
					return err
				}
				env.log.Info("export written", "format", use, "path", res.Path, "export_id", res.ID)
				if flags.jsonMode {
					return writeJSON(env.out, map[string]any{
						"id":         res.ID,
						"format":     use,
						"path":       res.Path,
						"created_at": res.CreatedAt.Format(time.RFC3339),
						"users":      res.Users,
						"policies":   res.Policies,
					})
				}
				fmt.Fprintf(env.out, "exported %d users and %d policies to %s\n", res.Users, res.Policies, res.Path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output file (default: "+defaultName+" in the data directory)")
	return cmd
}
