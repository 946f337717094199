package app

import (
	"errors"
	"strings"
	"time"

	"github.com/mesh-intelligence/coverdesk/internal/console"
	"github.com/mesh-intelligence/coverdesk/internal/service"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

func (a *App) userItems() []item {
	return []item{
		{"Add user", a.addUser},
		{"Remove user", a.removeUser},
		{"Change my password", a.changeOwnPassword},
		{"List users", a.listUsers},
	}
}

// policyItems returns the policy actions; manage adds the ones that change
// stored policies.
func (a *App) policyItems(manage bool) []item {
	var items []item
	if manage {
		items = append(items,
			item{"Contract home policy", a.contractHome},
			item{"Contract auto policy", a.contractAuto},
			item{"Contract life policy", a.contractLife},
			item{"Remove policy", a.removePolicy},
		)
	}
	return append(items,
		item{"List policies", a.listPolicies},
		item{"List policies by type", a.listPoliciesByVariant},
		item{"Quote next year's premium", a.quotePolicy},
	)
}

// report prints the outcome of an action. Only input errors are returned.
func (a *App) report(err error, format string, args ...any) error {
	if err != nil {
		a.con.Error("%v", err)
		return nil
	}
	a.con.Success(format, args...)
	return nil
}

func (a *App) addUser() error {
	name, err := a.con.Ask("User name:")
	if err != nil {
		return err
	}
	pw, err := a.con.AskSecret("Password:")
	if err != nil {
		return err
	}
	role, err := console.AskValid(a.con, "Role ("+joinRoles()+"):", func(s string) (types.Role, error) {
		return types.ParseRole(s)
	})
	if err != nil {
		return err
	}
	_, err = a.sess.Users.Add(name, pw, role)
	return a.report(err, "User %s created.", name)
}

func (a *App) removeUser() error {
	name, err := a.con.Ask("User name to remove:")
	if err != nil {
		return err
	}
	if name == a.user.Name {
		a.con.Error("you cannot remove the user you are logged in as")
		return nil
	}
	return a.report(a.sess.Users.Remove(name), "User %s removed.", name)
}

func (a *App) changeOwnPassword() error {
	pw, err := a.con.AskSecret("New password:")
	if err != nil {
		return err
	}
	again, err := a.con.AskSecret("Repeat new password:")
	if err != nil {
		return err
	}
	if pw != again {
		a.con.Error("passwords do not match")
		return nil
	}
	return a.report(a.sess.Users.ChangePassword(a.user.Name, pw), "Password updated.")
}

func (a *App) listUsers() error {
	filter, err := a.con.AskYesNo("Filter by role?")
	if err != nil {
		return err
	}
	users := a.sess.Users.All()
	if filter {
		role, err := console.AskValid(a.con, "Role ("+joinRoles()+"):", func(s string) (types.Role, error) {
			return types.ParseRole(s)
		})
		if err != nil {
			return err
		}
		users = a.sess.Users.ByRole(role)
	}
	if len(users) == 0 {
		a.con.Warn("No users registered.")
		return nil
	}
	for _, u := range users {
		a.con.Row(u.String())
	}
	return nil
}

func (a *App) contractHome() error {
	var in service.HomeInput
	var err error
	if in.HolderID, in.Premium, err = a.askBase(); err != nil {
		return err
	}
	if in.AreaSqm, err = a.con.AskInt("Area in square metres:", func(n int) error {
		return service.CheckPositive("area", float64(n))
	}); err != nil {
		return err
	}
	if in.ContentsValue, err = a.con.AskFloat("Contents value:", positive("contents value")); err != nil {
		return err
	}
	if in.Address, err = a.askText("Address:", "address"); err != nil {
		return err
	}
	if in.ConstructionYear, err = a.con.AskInt("Construction year:", func(y int) error {
		return service.CheckConstructionYear(y, a.now())
	}); err != nil {
		return err
	}
	p, err := a.sess.Policies.ContractHome(in)
	return a.report(err, "Home policy %d contracted.", p.ID)
}

func (a *App) contractAuto() error {
	var in service.AutoInput
	var err error
	if in.HolderID, in.Premium, err = a.askBase(); err != nil {
		return err
	}
	if in.Description, err = a.askText("Vehicle description:", "description"); err != nil {
		return err
	}
	if in.FuelType, err = a.askText("Fuel type:", "fuel type"); err != nil {
		return err
	}
	if in.Vehicle, err = console.AskValid(a.con, "Vehicle type ("+join(types.VehicleTypes)+"):", types.ParseVehicleType); err != nil {
		return err
	}
	if in.Coverage, err = console.AskValid(a.con, "Coverage ("+join(types.Coverages)+"):", types.ParseCoverage); err != nil {
		return err
	}
	if in.RoadsideAssistance, err = a.con.AskYesNo("Roadside assistance?"); err != nil {
		return err
	}
	if in.ClaimCount, err = a.con.AskInt("Number of claims declared:", service.CheckClaimCount); err != nil {
		return err
	}
	p, err := a.sess.Policies.ContractAuto(in)
	return a.report(err, "Auto policy %d contracted.", p.ID)
}

func (a *App) contractLife() error {
	var in service.LifeInput
	var err error
	if in.HolderID, in.Premium, err = a.askBase(); err != nil {
		return err
	}
	if in.BirthDate, err = console.AskValid(a.con, "Birth date (dd/mm/yyyy):", func(s string) (t time.Time, err error) {
		if t, err = service.ParseDate(s); err != nil {
			return t, err
		}
		return t, service.CheckBirthDate(t, a.now())
	}); err != nil {
		return err
	}
	if in.Risk, err = console.AskValid(a.con, "Risk level ("+join(types.RiskLevels)+"):", types.ParseRiskLevel); err != nil {
		return err
	}
	if in.PayoutAmount, err = a.con.AskFloat("Payout amount:", positive("payout amount")); err != nil {
		return err
	}
	p, err := a.sess.Policies.ContractLife(in)
	return a.report(err, "Life policy %d contracted.", p.ID)
}

// askBase asks for the fields shared by every policy.
func (a *App) askBase() (string, float64, error) {
	holder, err := console.AskValid(a.con, "Holder id (8 digits and a letter):", func(s string) (string, error) {
		s = service.NormalizeHolderID(s)
		return s, service.CheckHolderID(s)
	})
	if err != nil {
		return "", 0, err
	}
	premium, err := a.con.AskFloat("Premium:", positive("premium"))
	return holder, premium, err
}

func (a *App) askText(prompt, what string) (string, error) {
	return console.AskValid(a.con, prompt, func(s string) (string, error) {
		return s, service.CheckText(what, s)
	})
}

func (a *App) removePolicy() error {
	id, err := a.con.AskInt("Policy number to remove:", nil)
	if err != nil {
		return err
	}
	return a.report(a.sess.Policies.Remove(id), "Policy %d removed.", id)
}

func (a *App) listPolicies() error {
	a.showPolicies(a.sess.Policies.All())
	return nil
}

func (a *App) listPoliciesByVariant() error {
	names := make([]string, len(types.Variants))
	for i, v := range types.Variants {
		names[i] = v.Name()
	}
	i, err := a.con.Choose("Policy type", names)
	if err != nil {
		return err
	}
	a.showPolicies(a.sess.Policies.ByVariant(types.Variants[i]))
	return nil
}

func (a *App) showPolicies(policies []types.Policy) {
	if len(policies) == 0 {
		a.con.Warn("No policies found.")
		return
	}
	for _, p := range policies {
		a.con.Row(types.Describe(p))
	}
}

func (a *App) quotePolicy() error {
	id, err := a.con.AskInt("Policy number:", nil)
	if err != nil {
		return err
	}
	pct, err := a.con.AskFloat("Base increase in percent:", func(f float64) error {
		if f < 0 {
			return errors.New("increase must not be negative")
		}
		return nil
	})
	if err != nil {
		return err
	}
	q, err := a.sess.Policies.Quote(id, pct/100)
	return a.report(err, "Policy %d next year: %.2f", id, q)
}

func positive(what string) func(float64) error {
	return func(f float64) error { return service.CheckPositive(what, f) }
}

func joinRoles() string { return join(types.Roles) }

func join[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
