package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// policyView is the JSON shape of a policy.
type policyView struct {
	Variant string       `json:"variant"`
	Policy  types.Policy `json:"policy"`
	Quote   *float64     `json:"next_year_premium,omitempty"`
}

func newPolicyView(p types.Policy) policyView {
	return policyView{Variant: p.Variant().Name(), Policy: p}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writePolicies(w io.Writer, jsonMode bool, policies []types.Policy) error {
	if jsonMode {
		views := make([]policyView, 0, len(policies))
		for _, p := range policies {
			views = append(views, newPolicyView(p))
		}
		return writeJSON(w, views)
	}
	for _, p := range policies {
		fmt.Fprintln(w, types.Describe(p))
	}
	return nil
}

func writeUsers(w io.Writer, jsonMode bool, users []types.User) error {
	if jsonMode {
		if users == nil {
			users = []types.User{}
		}
		return writeJSON(w, users)
	}
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\n", u.Name, u.Role)
	}
	return nil
}
