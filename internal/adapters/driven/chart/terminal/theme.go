package terminal

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the chart.
type Theme struct {
	// Primary colours the title and the bars.
	Primary lipgloss.Color

	// Secondary colours axis labels.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for values and the empty part of bars.
	Muted lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the chart heading.
	Title lipgloss.Style

	// Axis style for axis labels.
	Axis lipgloss.Style

	// Category style for bar labels.
	Category lipgloss.Style

	// Value style for the number after each bar.
	Value lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			MarginBottom(1),

		Axis: lipgloss.NewStyle().
			Italic(true).
			Foreground(theme.Secondary),

		Category: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Value: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// Theme returns the underlying theme.
func (s *Styles) Theme() *Theme {
	return s.theme
}
