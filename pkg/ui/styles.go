package ui

import "github.com/charmbracelet/lipgloss"

// Common UI styles
var (
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).MarginLeft(2)
	HelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	InfoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("140"))
)

// Card styles
var (
	CardStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("255")).
			Foreground(lipgloss.Color("0")).
			Padding(0, 1).
			Margin(0, 1).
			Border(lipgloss.RoundedBorder())

	RedCardStyle = CardStyle.
			Foreground(lipgloss.Color("196"))

	HiddenCardStyle = CardStyle.
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("255"))
)

// Seat styles
var (
	SeatStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Margin(0, 1)

	ActingSeatStyle = SeatStyle.
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("46"))

	OwnSeatStyle = SeatStyle.
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("39"))

	FoldedSeatStyle = SeatStyle.
			BorderForeground(lipgloss.Color("241")).
			Foreground(lipgloss.Color("241"))

	EmptySeatStyle = SeatStyle.
			BorderForeground(lipgloss.Color("236")).
			Foreground(lipgloss.Color("238"))
)

// Table styles
var (
	PotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Padding(0, 2).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("46")).
			Align(lipgloss.Center).
			Bold(true)

	StatusOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	StatusWarnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	WinnerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	ChatNameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)
