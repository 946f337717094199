package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

func newUserCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd(flags))
	cmd.AddCommand(newUserListCmd(flags))
	cmd.AddCommand(newUserRemoveCmd(flags))
	cmd.AddCommand(newUserPasswdCmd(flags))
	return cmd
}

func newUserAddCmd(flags *rootFlags) *cobra.Command {
	var password, role string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := types.ParseRole(role)
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(env *cmdEnv) error {
				u, err := env.sess.Users.Add(args[0], password, r)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return writeJSON(env.out, u)
				}
				fmt.Fprintf(env.out, "added user %s (%s)\n", u.Name, u.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password of the new user")
	cmd.Flags().StringVar(&role, "role", string(types.RoleView), "role: ADMIN, MANAGEMENT or VIEW")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newUserListCmd(flags *rootFlags) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(env *cmdEnv) error {
				users := env.sess.Users.All()
				if role != "" {
					r, err := types.ParseRole(role)
					if err != nil {
						return err
					}
					users = env.sess.Users.ByRole(r)
				}
				return writeUsers(env.out, flags.jsonMode, users)
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "only list users with this role")
	return cmd
}

func newUserRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(env *cmdEnv) error {
				if err := env.sess.Users.Remove(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(env.out, "removed user %s\n", args[0])
				return nil
			})
		},
	}
}

func newUserPasswdCmd(flags *rootFlags) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "passwd <name>",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(env *cmdEnv) error {
				if err := env.sess.Users.ChangePassword(args[0], password); err != nil {
					return err
				}
				fmt.Fprintf(env.out, "password changed for %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
