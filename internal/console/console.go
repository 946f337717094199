// Package console implements line-oriented terminal interaction: prompts
// with validation loops, numbered menus and styled status messages.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Console reads answers from in and writes prompts and messages to out.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	styled bool
}

// New returns a console over arbitrary streams. Output is unstyled and
// secrets are read as plain lines.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out, fd: -1}
}

// NewStd returns a console on the process's standard streams. Styling is
// enabled when stdout is a terminal and secrets are read without echo when
// stdin is one.
func NewStd() *Console {
	c := New(os.Stdin, os.Stdout)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.fd = fd
	}
	c.styled = term.IsTerminal(int(os.Stdout.Fd()))
	return c
}

func (c *Console) render(style lipgloss.Style, s string) string {
	if !c.styled {
		return s
	}
	return style.Render(s)
}

// Clear erases the screen. It does nothing unless output is a terminal.
func (c *Console) Clear() {
	if c.styled {
		fmt.Fprint(c.out, "\033[H\033[2J")
	}
}

// Println writes one plain line.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Title writes a heading.
func (c *Console) Title(s string) {
	fmt.Fprintln(c.out, c.render(TitleStyle, s))
}

// Row writes an indented list entry.
func (c *Console) Row(s string) {
	if c.styled {
		fmt.Fprintln(c.out, RowStyle.Render(s))
		return
	}
	fmt.Fprintln(c.out, "  "+s)
}

// Success reports a completed action.
func (c *Console) Success(format string, a ...any) {
	fmt.Fprintln(c.out, c.render(SuccessStyle, fmt.Sprintf(format, a...)))
}

// Warn reports a recoverable problem.
func (c *Console) Warn(format string, a ...any) {
	fmt.Fprintln(c.out, c.render(WarnStyle, fmt.Sprintf(format, a...)))
}

// Error reports a failed action.
func (c *Console) Error(format string, a ...any) {
	fmt.Fprintln(c.out, c.render(ErrorStyle, "error: "+fmt.Sprintf(format, a...)))
}

func (c *Console) prompt(p string) {
	fmt.Fprint(c.out, c.render(PromptStyle, p)+" ")
}

// Ask prompts and returns the trimmed answer. It returns io.EOF once the
// input is exhausted.
func (c *Console) Ask(p string) (string, error) {
	c.prompt(p)
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		fmt.Fprintln(c.out)
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AskSecret prompts for a password. On a terminal the input is not echoed.
func (c *Console) AskSecret(p string) (string, error) {
	if c.fd < 0 {
		return c.Ask(p)
	}
	c.prompt(p)
	b, err := term.ReadPassword(c.fd)
	fmt.Fprintln(c.out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// AskYesNo prompts until the answer is y/yes or n/no.
func (c *Console) AskYesNo(p string) (bool, error) {
	return AskValid(c, p+" (y/n)", func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "y", "yes", "s", "si":
			return true, nil
		case "n", "no":
			return false, nil
		}
		return false, fmt.Errorf("answer y or n")
	})
}

// AskInt prompts until the answer is an integer accepted by check.
func (c *Console) AskInt(p string, check func(int) error) (int, error) {
	return AskValid(c, p, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%q is not a whole number", s)
		}
		if check != nil {
			if err := check(n); err != nil {
				return 0, err
			}
		}
		return n, nil
	})
}

// AskFloat prompts until the answer is a number accepted by check. A comma
// is accepted as the decimal separator.
func (c *Console) AskFloat(p string, check func(float64) error) (float64, error) {
	return AskValid(c, p, func(s string) (float64, error) {
		f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
		if err != nil {
			return 0, fmt.Errorf("%q is not a number", s)
		}
		if check != nil {
			if err := check(f); err != nil {
				return 0, err
			}
		}
		return f, nil
	})
}

// Choose shows a numbered menu and returns the zero-based index of the
// chosen option.
func (c *Console) Choose(title string, options []string) (int, error) {
	c.Title(title)
	for i, o := range options {
		fmt.Fprintf(c.out, "%s %s\n", c.render(OptionIndexStyle, strconv.Itoa(i+1)+"."), o)
	}
	n, err := c.AskInt("Choose an option >", func(n int) error {
		if n < 1 || n > len(options) {
			return fmt.Errorf("option must be between 1 and %d", len(options))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

// AskValid prompts until parse accepts the answer, reporting each rejection.
// Input errors such as io.EOF end the loop.
func AskValid[T any](c *Console, p string, parse func(string) (T, error)) (T, error) {
	for {
		s, err := c.Ask(p)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(s)
		if err == nil {
			return v, nil
		}
		c.Error("%v", err)
	}
}
