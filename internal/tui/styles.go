package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorAccent  = lipgloss.Color("#a855f7")
	ColorMuted   = lipgloss.Color("#64748b")
	ColorFg      = lipgloss.Color("#e2e8f0")
	ColorWarning = lipgloss.Color("#fbbf24")

	QuestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d8b4fe")).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	DisabledStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Faint(true)

	GenreStyle = lipgloss.NewStyle().
			Foreground(ColorFg)

	OptionalStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#9333ea")).
			Padding(0, 2)

	ButtonFocusedStyle = ButtonStyle.
				Background(lipgloss.Color("#db2777")).
				Bold(true)

	ButtonBusyStyle = ButtonStyle.
			Background(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)
)
