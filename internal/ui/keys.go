// Package ui provides the Charmbracelet TUI for avatarchat.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keyboard shortcuts available in the client.
// It implements the help.KeyMap interface for automatic help text.
type KeyMap struct {
	// Send submits the current input as a conversational turn
	Send key.Binding

	// Mic toggles one-shot speech capture
	Mic key.Binding

	// Theme toggles between the dark and light theme
	Theme key.Binding

	// NextPersonality cycles through the available personalities
	NextPersonality key.Binding

	// NextCharacter cycles through the available characters
	NextCharacter key.Binding

	// Preference toggles the preference entry field
	Preference key.Binding

	// ClearHistory clears the conversation history
	ClearHistory key.Binding

	// PageUp / PageDown scroll the transcript
	PageUp   key.Binding
	PageDown key.Binding

	// Quit exits the client
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Mic: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "mic"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		NextPersonality: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "personality"),
		),
		NextCharacter: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "character"),
		),
		Preference: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "preference"),
		),
		ClearHistory: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear history"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the one-line help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Mic, k.NextPersonality, k.NextCharacter, k.Preference, k.ClearHistory, k.Theme, k.Quit}
}

// FullHelp returns all bindings grouped for the expanded help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.Mic, k.Preference},
		{k.NextPersonality, k.NextCharacter, k.ClearHistory},
		{k.Theme, k.PageUp, k.PageDown, k.Quit},
	}
}
