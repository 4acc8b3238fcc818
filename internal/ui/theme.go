package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the color palette for the UI.
type Theme struct {
	Name string

	Accent    lipgloss.Color
	Secondary lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	UserBg    lipgloss.Color
	AgentBg   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
}

// DarkTheme returns the dark palette
func DarkTheme() Theme {
	return Theme{
		Name:      "dark",
		Accent:    lipgloss.Color("#7C9CF5"),
		Secondary: lipgloss.Color("#5EC6A8"),
		Text:      lipgloss.Color("#E6E6E6"),
		Muted:     lipgloss.Color("#6B7280"),
		UserBg:    lipgloss.Color("#1E3A5F"),
		AgentBg:   lipgloss.Color("#1F4436"),
		Error:     lipgloss.Color("#F27878"),
		Border:    lipgloss.Color("#3B4252"),
	}
}

// LightTheme returns the light palette
func LightTheme() Theme {
	return Theme{
		Name:      "light",
		Accent:    lipgloss.Color("#3B5BDB"),
		Secondary: lipgloss.Color("#0B7A5E"),
		Text:      lipgloss.Color("#1F2430"),
		Muted:     lipgloss.Color("#9CA3AF"),
		UserBg:    lipgloss.Color("#DBEAFE"),
		AgentBg:   lipgloss.Color("#D1FAE5"),
		Error:     lipgloss.Color("#B91C1C"),
		Border:    lipgloss.Color("#D1D5DB"),
	}
}

// DetectTheme resolves the configured theme name. "auto" follows the
// terminal background.
func DetectTheme(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		if termenv.HasDarkBackground() {
			return DarkTheme()
		}
		return LightTheme()
	}
}

// Toggle returns the opposite theme
func (t Theme) Toggle() Theme {
	if t.Name == "dark" {
		return LightTheme()
	}
	return DarkTheme()
}
