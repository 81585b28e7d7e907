package tui

import (
	"github.com/charmbracelet/bubbles/v2/table"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/pb33f/gqlific/motor"
)

// Workbench palette
var (
	RGBBlue       = lipgloss.Color("45")
	RGBPink       = lipgloss.Color("201")
	RGBRed        = lipgloss.Color("196")
	RGBYellow     = lipgloss.Color("220")
	RGBGreen      = lipgloss.Color("46")
	RGBGrey       = lipgloss.Color("246")
	RGBSubtlePink = lipgloss.Color("#2a1a2a")
)

// General styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBPink)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBBlue)

	SelectedStyle = lipgloss.NewStyle().
			Background(RGBSubtlePink).
			Foreground(RGBPink).
			Bold(true)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(RGBGreen)

	StatusWarningStyle = lipgloss.NewStyle().
				Foreground(RGBYellow)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(RGBRed)

	HelpStyle = lipgloss.NewStyle().
			Foreground(RGBGrey).
			Faint(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(RGBRed).
			Bold(true)

	FaintStyle = lipgloss.NewStyle().Faint(true)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(RGBPink).
			Background(RGBSubtlePink).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(RGBGrey).
				Padding(0, 1)

	titleBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(RGBBlue).
			BorderBottom(true).
			Padding(0, 1)
)

// Syntax styles used by the JSON renderer
var (
	SyntaxKeyStyle     = lipgloss.NewStyle().Foreground(RGBBlue).Bold(true)
	SyntaxBraceStyle   = lipgloss.NewStyle().Foreground(RGBPink)
	SyntaxBracketStyle = lipgloss.NewStyle().Foreground(RGBYellow)
	SyntaxNumberStyle  = lipgloss.NewStyle().Foreground(RGBYellow)
	SyntaxBoolStyle    = lipgloss.NewStyle().Foreground(RGBGreen)
	SyntaxNullStyle    = lipgloss.NewStyle().Faint(true)
	SyntaxMatchStyle   = lipgloss.NewStyle().
				Background(RGBSubtlePink).
				Foreground(RGBPink).
				Bold(true)
)

// Projection cells, shared by the table pane and the table command
var (
	StyleCellTrue    = lipgloss.NewStyle().Foreground(RGBGreen)
	StyleCellFalse   = lipgloss.NewStyle().Foreground(RGBRed)
	StyleCellSummary = lipgloss.NewStyle().Faint(true)

	ProjectionHeaderStyle = lipgloss.NewStyle().Foreground(RGBPink).Bold(true).Padding(0, 1)
	ProjectionCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	ProjectionBorderStyle = lipgloss.NewStyle().Foreground(RGBPink)
)

// StatusStyle picks a colour for an HTTP status code.
func StatusStyle(code int) lipgloss.Style {
	switch {
	case code >= 500:
		return StatusErrorStyle
	case code >= 400:
		return StatusWarningStyle
	case code > 0:
		return StatusOKStyle
	default:
		return FaintStyle
	}
}

// EnvironmentStyle renders an environment name in its configured colour, pink when unset.
func EnvironmentStyle(color string) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true).Foreground(RGBPink)
	if color != "" {
		s = s.Foreground(lipgloss.Color(color))
	}
	return s
}

// ModeBadge is the short tab marker for a field's view mode.
func ModeBadge(mode motor.ViewMode) string {
	if mode == motor.ModeRawJSON {
		return "{}"
	}
	return "k/v"
}

// ApplyTableStyles gives a bubbles table the workbench look.
func ApplyTableStyles(t table.Model) table.Model {
	s := table.DefaultStyles()

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		BorderBottom(true).
		Foreground(RGBPink).
		Bold(true).
		Padding(0, 1)

	s.Selected = SelectedStyle

	s.Cell = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(RGBPink).
		Padding(0, 1)

	t.SetStyles(s)
	return t
}
