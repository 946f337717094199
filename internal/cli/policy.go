package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/coverdesk/internal/service"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

func newPolicyCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Contract, list and cancel policies",
	}
	add := &cobra.Command{
		Use:   "add",
		Short: "Contract a new policy",
	}
	add.AddCommand(newPolicyAddHomeCmd(flags))
	add.AddCommand(newPolicyAddAutoCmd(flags))
	add.AddCommand(newPolicyAddLifeCmd(flags))

	cmd.AddCommand(add)
	cmd.AddCommand(newPolicyListCmd(flags))
	cmd.AddCommand(newPolicyShowCmd(flags))
	cmd.AddCommand(newPolicyRemoveCmd(flags))
	return cmd
}

// holderFlags are shared by every "policy add" subcommand.
type holderFlags struct {
	holder  string
	premium float64
}

func (h *holderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&h.holder, "holder", "", "holder id (8 digits and a letter)")
	cmd.Flags().Float64Var(&h.premium, "premium", 0, "annual premium")
	_ = cmd.MarkFlagRequired("holder")
	_ = cmd.MarkFlagRequired("premium")
}

func newPolicyAddHomeCmd(flags *rootFlags) *cobra.Command {
	var h holderFlags
	var in service.HomeInput
	cmd := &cobra.Command{
		Use:   "home",
		Short: "Contract a home policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.HolderID, in.Premium = h.holder, h.premium
			return withSession(cmd, flags, func(env *cmdEnv) error {
				p, err := env.sess.Policies.ContractHome(in)
				if err != nil {
					return err
				}
				return writeContracted(env, flags, p)
			})
		},
	}
	h.register(cmd)
	cmd.Flags().IntVar(&in.AreaSqm, "area", 0, "dwelling area in square meters")
	cmd.Flags().Float64Var(&in.ContentsValue, "contents", 0, "value of the contents")
	cmd.Flags().StringVar(&in.Address, "address", "", "dwelling address")
	cmd.Flags().IntVar(&in.ConstructionYear, "year", 0, "construction year")
	return cmd
}

func newPolicyAddAutoCmd(flags *rootFlags) *cobra.Command {
	var h holderFlags
	var in service.AutoInput
	var vehicle, coverage string
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Contract an auto policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in.HolderID, in.Premium = h.holder, h.premium
			in.Vehicle = types.VehicleType(vehicle)
			in.Coverage = types.Coverage(coverage)
			return withSession(cmd, flags, func(env *cmdEnv) error {
				p, err := env.sess.Policies.ContractAuto(in)
				if err != nil {
					return err
				}
				return writeContracted(env, flags, p)
			})
		},
	}
	h.register(cmd)
	cmd.Flags().StringVar(&in.Description, "description", "", "vehicle description")
	cmd.Flags().StringVar(&in.FuelType, "fuel", "", "fuel type")
	cmd.Flags().StringVar(&vehicle, "vehicle", string(types.VehicleCar), "vehicle type: CAR, MOTORCYCLE or TRUCK")
	cmd.Flags().StringVar(&coverage, "coverage", string(types.CoverageThirdParty), "coverage level")
	cmd.Flags().BoolVar(&in.RoadsideAssistance, "roadside", false, "include roadside assistance")
	cmd.Flags().IntVar(&in.ClaimCount, "claims", 0, "number of declared claims")
	return cmd
}

func newPolicyAddLifeCmd(flags *rootFlags) *cobra.Command {
	var h holderFlags
	var in service.LifeInput
	var birth, risk string
	cmd := &cobra.Command{
		Use:   "life",
		Short: "Contract a life policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := service.ParseDate(birth)
			if err != nil {
				return err
			}
			in.HolderID, in.Premium = h.holder, h.premium
			in.BirthDate = d
			in.Risk = types.RiskLevel(risk)
			return withSession(cmd, flags, func(env *cmdEnv) error {
				p, err := env.sess.Policies.ContractLife(in)
				if err != nil {
					return err
				}
				return writeContracted(env, flags, p)
			})
		},
	}
	h.register(cmd)
	cmd.Flags().StringVar(&birth, "birth-date", "", "holder birth date (dd/mm/yyyy)")
	cmd.Flags().StringVar(&risk, "risk", string(types.RiskLow), "risk level: LOW, MEDIUM or HIGH")
	cmd.Flags().Float64Var(&in.PayoutAmount, "payout", 0, "amount paid out")
	_ = cmd.MarkFlagRequired("birth-date")
	return cmd
}

func writeContracted(env *cmdEnv, flags *rootFlags, p types.Policy) error {
	if flags.jsonMode {
		return writeJSON(env.out, newPolicyView(p))
	}
	fmt.Fprintf(env.out, "contracted %s policy %d\n", p.Variant().Name(), p.Base().ID)
	return nil
}

func newPolicyListCmd(flags *rootFlags) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List policies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var v types.Variant
			if variant != "" {
				var err error
				if v, err = types.ParseVariant(variant); err != nil {
					return err
				}
			}
			return withSession(cmd, flags, func(env *cmdEnv) error {
				policies := env.sess.Policies.All()
				if v != "" {
					policies = env.sess.Policies.ByVariant(v)
				}
				return writePolicies(env.out, flags.jsonMode, policies)
			})
		},
	}
	cmd.Flags().StringVar(&variant, "variant", "", "only list policies of this variant: home, auto or life")
	return cmd
}

func newPolicyShowCmd(flags *rootFlags) *cobra.Command {
	var ratePct float64
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a policy and its next-year premium",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePolicyID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(env *cmdEnv) error {
				p, ok := env.sess.Policies.Find(id)
				if !ok {
					return fmt.Errorf("policy %d: %w", id, types.ErrNotFound)
				}
				quote, err := env.sess.Policies.Quote(id, ratePct/100)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					view := newPolicyView(p)
					view.Quote = &quote
					return writeJSON(env.out, view)
				}
				fmt.Fprintln(env.out, types.Describe(p))
				fmt.Fprintf(env.out, "next year premium: %.2f\n", quote)
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&ratePct, "rate", service.DefaultRate*100, "base interest rate in percent")
	return cmd
}

func newPolicyRemoveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Cancel a policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePolicyID(args[0])
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(env *cmdEnv) error {
				if err := env.sess.Policies.Remove(id); err != nil {
					return err
				}
				fmt.Fprintf(env.out, "removed policy %d\n", id)
				return nil
			})
		},
	}
}

func parsePolicyID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("policy id %q: %w", s, types.ErrInvalidInput)
	}
	return id, nil
}
