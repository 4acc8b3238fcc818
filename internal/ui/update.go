package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const inputHeight = 3

// Update handles all messages on the single event loop
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		if !m.ready {
			m.ready = true
		}
		m.refreshTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.submitting && !m.listening {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TranscriptMsg:
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			return m, nil
		}
		if m.deps.State.Busy() {
			m.setNotice("Still busy, transcript dropped", true)
			return m, nil
		}
		m.submitting = true
		m.setNotice(fmt.Sprintf("Heard: %s", text), false)
		m.refreshTranscript()
		return m, tea.Batch(m.submitCmd(text), m.spinner.Tick)

	case ListeningMsg:
		m.listening = msg.Active
		if msg.Active {
			return m, m.spinner.Tick
		}
		return m, nil

	case AvatarChangedMsg:
		m.avatarMode = msg.Mode
		m.activeVideo = msg.Video
		return m, nil

	case initLoadedMsg:
		m.personalities = msg.personalities
		m.characters = msg.characters
		m.activeVideo = m.deps.Presenter.ActiveVideo()
		if msg.historyLen > 0 {
			m.setNotice(fmt.Sprintf("Restored %d messages", msg.historyLen), false)
		}
		m.refreshTranscript()
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		if !msg.accepted {
			m.setNotice("Turn not accepted, still processing", true)
		}
		m.refreshTranscript()
		return m, nil

	case personalityChangedMsg:
		if msg.err != nil {
			m.setNotice(fmt.Sprintf("Personality change failed: %v", msg.err), true)
		} else {
			m.setNotice(fmt.Sprintf("Personality: %s", msg.name), false)
		}
		return m, nil

	case characterChangedMsg:
		if msg.err != nil {
			m.setNotice(fmt.Sprintf("Character change failed: %v", msg.err), true)
		} else {
			m.setNotice(fmt.Sprintf("Character: %s", msg.name), false)
			m.characters = m.deps.Presenter.Characters()
			m.activeVideo = m.deps.Presenter.ActiveVideo()
		}
		return m, nil

	case preferenceAddedMsg:
		if msg.err != nil {
			m.setNotice(fmt.Sprintf("Preference not saved: %v", msg.err), true)
			return m, nil
		}
		notice := msg.message
		if notice == "" {
			notice = "Preference saved"
		}
		m.setNotice(notice, false)
		return m, m.reloadPersonalitiesCmd()

	case personalitiesReloadedMsg:
		m.personalities = msg.personalities
		return m, nil

	case historyClearedMsg:
		if msg.err != nil {
			m.setNotice(fmt.Sprintf("Clear history failed: %v", msg.err), true)
			return m, nil
		}
		m.setNotice("History cleared", false)
		m.refreshTranscript()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		return m.handleSend()

	case key.Matches(msg, m.keys.Mic):
		// Degrades to a silent no-op when speech capture is unavailable.
		m.deps.Capturer.Activate()
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		m.theme = m.theme.Toggle()
		m.styles = NewStyles(m.theme)
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.NextPersonality):
		next := cycleNext(m.personalities, m.deps.State.Personality())
		if next == "" {
			return m, nil
		}
		m.setNotice(fmt.Sprintf("Switching personality to %s", next), false)
		return m, m.changePersonalityCmd(next)

	case key.Matches(msg, m.keys.NextCharacter):
		next := cycleNext(m.characters, m.deps.State.Character())
		if next == "" {
			return m, nil
		}
		m.setNotice(fmt.Sprintf("Switching character to %s", next), false)
		return m, m.changeCharacterCmd(next)

	case key.Matches(msg, m.keys.Preference):
		if m.mode == inputPreference {
			m.mode = inputChat
			m.input.Placeholder = "Type here to talk to avatar"
		} else {
			m.mode = inputPreference
			m.input.Placeholder = "Describe how the avatar should behave"
		}
		m.input.Reset()
		return m, nil

	case key.Matches(msg, m.keys.ClearHistory):
		return m, m.clearHistoryCmd()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleSend() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if m.mode == inputPreference {
		m.input.Reset()
		m.mode = inputChat
		m.input.Placeholder = "Type here to talk to avatar"
		m.setNotice("Saving preference", false)
		return m, m.addPreferenceCmd(text)
	}

	if m.deps.State.Busy() {
		m.setNotice("Still processing the previous turn", true)
		return m, nil
	}

	m.input.Reset()
	m.submitting = true
	m.setNotice("", false)
	m.refreshTranscript()
	return m, tea.Batch(m.submitCmd(text), m.spinner.Tick)
}

// layout recomputes component sizes after a resize.
func (m *Model) layout() {
	headerHeight := 2
	avatarHeight := 4
	footerHeight := 2
	noticeHeight := 1

	vpHeight := m.height - headerHeight - avatarHeight - inputHeight - footerHeight - noticeHeight - 2
	if vpHeight < 3 {
		vpHeight = 3
	}

	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.width, vpHeight)
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = vpHeight
	}
	m.input.SetWidth(m.width - 4)
	m.input.SetHeight(1)
	m.help.Width = m.width
}

// refreshTranscript re-renders the conversation into the viewport and
// follows the tail.
func (m *Model) refreshTranscript() {
	if m.viewport.Width == 0 {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

// cycleNext returns the entry after current, wrapping around. An unknown
// current lands on the first entry.
func cycleNext(items []string, current string) string {
	if len(items) == 0 {
		return ""
	}
	for i, item := range items {
		if item == current {
			return items[(i+1)%len(items)]
		}
	}
	return items[0]
}
