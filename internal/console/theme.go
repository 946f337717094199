package console

import "github.com/charmbracelet/lipgloss"

var (
	Accent  = lipgloss.Color("#00D4AA")
	Warning = lipgloss.Color("#FFD700")
	Danger  = lipgloss.Color("#FF5F56")
	Muted   = lipgloss.Color("#aaaaaa")

	TitleStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true).
			Underline(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(Accent)

	OptionIndexStyle = lipgloss.NewStyle().
				Foreground(Accent).
				Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#39FF14"))

	WarnStyle = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	RowStyle = lipgloss.NewStyle().
			Foreground(Muted).
			PaddingLeft(2)
)
