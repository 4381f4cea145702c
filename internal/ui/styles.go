package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headingStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	buttonStyle   = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("63")).Foreground(lipgloss.Color("230"))
	disabledStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("238")).Foreground(lipgloss.Color("245"))
	openBadge     = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("33")).Foreground(lipgloss.Color("230"))
	doneBadge     = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("35")).Foreground(lipgloss.Color("230"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	selectedCardStyle = boxStyle.BorderForeground(lipgloss.Color("212"))

	dangerBoxStyle = boxStyle.BorderForeground(lipgloss.Color("160"))
)
