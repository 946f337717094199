package app

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mesh-intelligence/coverdesk/internal/console"
	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// cancelWord ends the login loop.
const cancelWord = "cancel"

// Modes offered when none is configured, in menu order.
var modeChoices = []struct {
	mode  string
	label string
}{
	{types.ModeMemory, "Simulation (data kept in memory only)"},
	{types.ModeFile, "Storage (data kept in files)"},
}

// App runs the interactive console over a session.
type App struct {
	con  *console.Console
	sess *Session
	user types.User
	now  func() time.Time
}

// SelectMode asks for the storage mode.
func SelectMode(con *console.Console) (string, error) {
	labels := make([]string, len(modeChoices))
	for i, m := range modeChoices {
		labels[i] = m.label
	}
	i, err := con.Choose("Select mode", labels)
	if err != nil {
		return "", err
	}
	return modeChoices[i].mode, nil
}

// Run reports the session's load results, authenticates a user and shows
// the menu of the user's role until they exit. Exhausted input ends the
// run without error.
func Run(con *console.Console, sess *Session) error {
	a := &App{con: con, sess: sess, now: time.Now}
	err := a.run()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (a *App) run() error {
	a.reportLoads()

	ok, err := a.ensureUsers()
	if err != nil || !ok {
		return err
	}
	ok, err = a.login()
	if err != nil || !ok {
		return err
	}
	a.con.Clear()
	a.con.Title(fmt.Sprintf("coverdesk: %s (%s)", a.user.Name, a.user.Role))
	return a.mainMenu()
}

func (a *App) reportLoads() {
	for _, r := range a.sess.Loads {
		switch {
		case r.Loaded():
			msg := fmt.Sprintf("Loaded %d %s from %s", r.Report.Loaded, r.Entity, r.Report.Path)
			if r.Report.Skipped > 0 {
				a.con.Warn("%s (%d malformed lines skipped)", msg, r.Report.Skipped)
			} else {
				a.con.Success("%s", msg)
			}
		case r.Empty():
			a.con.Warn("No %s loaded from %s", r.Entity, r.Report.Path)
		default:
			a.con.Error("could not load %s: %v", r.Entity, r.Err)
		}
	}
}

// ensureUsers offers to create the first ADMIN when no account exists.
func (a *App) ensureUsers() (bool, error) {
	if a.sess.Users.HasUsers() {
		return true, nil
	}
	a.con.Warn("There are no registered users.")
	yes, err := a.con.AskYesNo("Create an initial ADMIN user?")
	if err != nil {
		return false, err
	}
	if !yes {
		a.con.Error("at least one registered user is required to continue")
		return false, nil
	}
	for {
		name, err := a.con.Ask("Administrator name:")
		if err != nil {
			return false, err
		}
		pw, err := a.con.AskSecret("Password:")
		if err != nil {
			return false, err
		}
		if _, err := a.sess.Users.Add(name, pw, types.RoleAdmin); err != nil {
			a.con.Error("%v", err)
			continue
		}
		a.con.Success("User %s created.", name)
		return true, nil
	}
}

func (a *App) login() (bool, error) {
	for {
		name, err := a.con.Ask(fmt.Sprintf("User (or '%s' to exit):", cancelWord))
		if err != nil {
			return false, err
		}
		if strings.EqualFold(name, cancelWord) {
			return false, nil
		}
		pw, err := a.con.AskSecret("Password:")
		if err != nil {
			return false, err
		}
		u, err := a.sess.Users.Login(name, pw)
		if err != nil {
			a.con.Error("invalid credentials, try again")
			continue
		}
		a.user = u
		a.con.Success("Access granted. Welcome %s!", u.Name)
		return true, nil
	}
}

// item is one menu entry. A nil run leaves the menu.
type item struct {
	label string
	run   func() error
}

// menu shows items until a leaving entry is chosen. Only input errors
// propagate; action failures are reported on the console.
func (a *App) menu(title string, items []item) error {
	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.label
	}
	for {
		a.con.Println()
		i, err := a.con.Choose(title, labels)
		if err != nil {
			return err
		}
		if items[i].run == nil {
			return nil
		}
		if err := items[i].run(); err != nil {
			return err
		}
	}
}

func (a *App) mainMenu() error {
	back := item{"Back", nil}
	policies := func() error {
		return a.menu("Policies", append(a.policyItems(true), back))
	}
	switch a.user.Role {
	case types.RoleAdmin:
		return a.menu("Main menu", []item{
			{"Users", func() error { return a.menu("Users", append(a.userItems(), back)) }},
			{"Policies", policies},
			{"Exit", nil},
		})
	case types.RoleManagement:
		return a.menu("Main menu", []item{
			{"Policies", policies},
			{"Change my password", a.changeOwnPassword},
			{"Exit", nil},
		})
	default:
		return a.menu("Main menu", append(a.policyItems(false),
			item{"Change my password", a.changeOwnPassword},
			item{"Exit", nil}))
	}
}
