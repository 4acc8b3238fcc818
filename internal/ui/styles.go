package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all lipgloss styles for rendering.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Badge    lipgloss.Style
	Speaking lipgloss.Style
	Idle     lipgloss.Style
	Listen   lipgloss.Style

	AvatarPane lipgloss.Style
	AvatarMode lipgloss.Style
	VideoRef   lipgloss.Style

	Transcript lipgloss.Style
	UserMsg    lipgloss.Style
	AgentMsg   lipgloss.Style

	Input      lipgloss.Style
	PrefLabel  lipgloss.Style
	Notice     lipgloss.Style
	ErrNotice  lipgloss.Style
	HelpFooter lipgloss.Style
}

// NewStyles builds the style set for a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent),
		Badge: lipgloss.NewStyle().
			Foreground(t.Muted).
			PaddingLeft(2),
		Speaking: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary),
		Idle: lipgloss.NewStyle().
			Foreground(t.Muted),
		Listen: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Error),

		AvatarPane: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		AvatarMode: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent),
		VideoRef: lipgloss.NewStyle().
			Foreground(t.Muted).
			Italic(true),

		Transcript: lipgloss.NewStyle().
			Foreground(t.Text),
		UserMsg: lipgloss.NewStyle().
			Background(t.UserBg).
			Foreground(t.Text).
			Padding(0, 1).
			MarginBottom(1),
		AgentMsg: lipgloss.NewStyle().
			Background(t.AgentBg).
			Foreground(t.Text).
			Padding(0, 1).
			MarginBottom(1),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border),
		PrefLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary),
		Notice: lipgloss.NewStyle().
			Foreground(t.Secondary),
		ErrNotice: lipgloss.NewStyle().
			Foreground(t.Error),
		HelpFooter: lipgloss.NewStyle().
			Foreground(t.Muted),
	}
}
