package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mesh-intelligence/coverdesk/pkg/types"
)

// holderIDPattern is a national id: eight digits and a check letter.
var holderIDPattern = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)

// NormalizeHolderID upper-cases and trims s.
func NormalizeHolderID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// CheckHolderID validates a normalized holder id.
func CheckHolderID(id string) error {
	if !holderIDPattern.MatchString(id) {
		return fmt.Errorf("holder id %q must be 8 digits followed by a letter: %w", id, types.ErrInvalidInput)
	}
	return nil
}

// CheckPositive rejects zero and negative amounts.
func CheckPositive(what string, v float64) error {
	if !(v > 0) {
		return fmt.Errorf("%s must be positive, got %v: %w", what, v, types.ErrInvalidInput)
	}
	return nil
}

// CheckConstructionYear rejects years after now.
func CheckConstructionYear(year int, now time.Time) error {
	if year > now.Year() {
		return fmt.Errorf("construction year %d is in the future: %w", year, types.ErrInvalidInput)
	}
	return nil
}

// CheckClaimCount rejects negative counts.
func CheckClaimCount(n int) error {
	if n < 0 {
		return fmt.Errorf("claim count %d is negative: %w", n, types.ErrInvalidInput)
	}
	return nil
}

// CheckBirthDate rejects dates after now.
func CheckBirthDate(d, now time.Time) error {
	if d.IsZero() || d.After(now) {
		return fmt.Errorf("birth date %s is not in the past: %w", d.Format(types.DateLayout), types.ErrInvalidInput)
	}
	return nil
}

// ParseDate parses a dd/mm/yyyy date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(types.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be dd/mm/yyyy: %w", s, types.ErrInvalidInput)
	}
	return d, nil
}

// dateOnly drops the time of day and zone of t, keeping the calendar date
// as seen in t's own location. Stored dates carry no more than that.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckText rejects free text that is empty or would break a stored line.
func CheckText(what, s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s is empty: %w", what, types.ErrInvalidInput)
	}
	if strings.ContainsAny(s, ";\n\r") {
		return fmt.Errorf("%s must not contain ';' or line breaks: %w", what, types.ErrInvalidInput)
	}
	return nil
}

// CheckUserName validates a login name.
func CheckUserName(name string) error {
	if err := CheckText("user name", name); err != nil {
		return err
	}
	if strings.ContainsAny(name, " \t") {
		return fmt.Errorf("user name %q must not contain spaces: %w", name, types.ErrInvalidInput)
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
