package tui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	colorRed       = lipgloss.Color("#ff5555")
	colorGreen     = lipgloss.Color("#50fa7b")
	colorYellow    = lipgloss.Color("#f1fa8c")
	colorBlue      = lipgloss.Color("#8be9fd")
	colorPurple    = lipgloss.Color("#bd93f9")
	colorDim       = lipgloss.Color("#6272a4")
	colorBgLight   = lipgloss.Color("#343746")
	colorFg        = lipgloss.Color("#f8f8f2")
	colorOrange    = lipgloss.Color("#ffb86c")
	colorBorder    = lipgloss.Color("#44475a")
	colorHighlight = lipgloss.Color("#44475a")
)

// Style definitions.
var (
	// Entry list styles
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	itemSelectedStyle = lipgloss.NewStyle().
				Foreground(colorFg).
				Background(colorHighlight).
				Bold(true)

	// Detail view styles
	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	detailHeaderStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true).
				Padding(0, 0, 1, 0)

	sectionStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	textStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	// Finding styles
	findingCriticalStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	findingHighStyle = lipgloss.NewStyle().
				Foreground(colorOrange).
				Bold(true)

	findingMediumStyle = lipgloss.NewStyle().
				Foreground(colorYellow)

	findingLowStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	// Status styles
	statusPassStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	statusWarnStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	statusFailStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	// Status bar
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorFg).
			Background(colorBgLight).
			Padding(0, 1)

	// Help bar
	helpBarStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)
