package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/normanking/avatarchat/internal/session"
)

// initLoadCmd fetches personalities, the current personality, the character
// list and the stored history in one bootstrap pass. Every fetch degrades
// to a local fallback; startup never fails on a backend error.
func (m Model) initLoadCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx := context.Background()
		msg := initLoadedMsg{}

		personalities, err := deps.Backend.ListPersonalities(ctx)
		if err != nil || len(personalities) == 0 {
			personalities = defaultPersonalities
		}
		msg.personalities = personalities

		if current, err := deps.Backend.CurrentPersonality(ctx); err == nil {
			deps.State.SetPersonality(current)
			msg.current = current
		}

		if characters, err := deps.Backend.ListCharacters(ctx); err == nil && len(characters) > 0 {
			deps.Presenter.MergeCharacters(characters, deps.VideoBaseURL)
		}
		msg.characters = deps.Presenter.Characters()

		if history, err := deps.Backend.History(ctx); err == nil && len(history) > 0 {
			turns := make([]session.ConversationTurn, 0, len(history))
			for _, entry := range history {
				role := session.RoleAgent
				if entry.Role == "user" {
					role = session.RoleUser
				}
				turns = append(turns, session.ConversationTurn{Role: role, Text: entry.Content})
			}
			deps.State.Replace(turns)
			msg.historyLen = len(turns)
		}

		return msg
	}
}

// submitCmd runs one conversational turn. The submitter owns the gate; a
// rejected submission is a no-op.
func (m Model) submitCmd(text string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		accepted := deps.Submitter.Submit(context.Background(), text)
		return submitDoneMsg{accepted: accepted}
	}
}

// changePersonalityCmd requests a personality change. On failure the prior
// value is retained and the error is surfaced.
func (m Model) changePersonalityCmd(name string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		if err := deps.Backend.ChangePersonality(context.Background(), name); err != nil {
			return personalityChangedMsg{name: name, err: err}
		}
		deps.State.SetPersonality(name)
		return personalityChangedMsg{name: name}
	}
}

// changeCharacterCmd requests a character change; on success the idle loop
// swaps immediately via the presenter.
func (m Model) changeCharacterCmd(name string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		if err := deps.Backend.ChangeCharacter(context.Background(), name); err != nil {
			return characterChangedMsg{name: name, err: err}
		}
		deps.State.SetCharacter(name)
		if err := deps.Presenter.SetCharacter(name); err != nil {
			return characterChangedMsg{name: name, err: err}
		}
		return characterChangedMsg{name: name}
	}
}

// addPreferenceCmd stores a custom personality preference.
func (m Model) addPreferenceCmd(preference string) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		message, err := deps.Backend.AddPersonality(context.Background(), "Custom", preference)
		return preferenceAddedMsg{message: message, err: err}
	}
}

// reloadPersonalitiesCmd refreshes the personality list after a preference
// was stored.
func (m Model) reloadPersonalitiesCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		personalities, err := deps.Backend.ListPersonalities(context.Background())
		if err != nil || len(personalities) == 0 {
			personalities = defaultPersonalities
		}
		return personalitiesReloadedMsg{personalities: personalities}
	}
}

// clearHistoryCmd clears the transcript locally and server-side. The turn
// gate is untouched either way.
func (m Model) clearHistoryCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		if err := deps.Backend.ClearHistory(context.Background()); err != nil {
			return historyClearedMsg{err: err}
		}
		deps.State.Clear()
		return historyClearedMsg{}
	}
}
