package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/normanking/avatarchat/internal/avatar"
	"github.com/normanking/avatarchat/internal/session"
)

// View renders the full client screen
func (m Model) View() string {
	if !m.ready {
		return "Starting avatar chat..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderAvatarPane())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderNotice())
	b.WriteString("\n")
	b.WriteString(m.styles.HelpFooter.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render("Avatar Chat")

	var badges []string
	if personality := m.deps.State.Personality(); personality != "" {
		badges = append(badges, m.styles.Badge.Render(fmt.Sprintf("personality: %s", personality)))
	}
	if character := m.deps.State.Character(); character != "" {
		badges = append(badges, m.styles.Badge.Render(fmt.Sprintf("character: %s", character)))
	}
	if m.listening {
		badges = append(badges, m.styles.Listen.Render("  ● listening"))
	}
	if m.submitting {
		badges = append(badges, m.styles.Badge.Render(m.spinner.View()+" thinking"))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title}, badges...)...)
	return m.styles.Header.Width(m.width - 2).Render(line)
}

// renderAvatarPane shows the presentation state textually. The terminal
// cannot play the video loops, so the pane names the active loop instead.
func (m Model) renderAvatarPane() string {
	character := m.deps.Presenter.ActiveCharacter()

	var mode string
	if m.avatarMode == avatar.ModeSpeaking {
		mode = m.styles.Speaking.Render("▶ speaking")
	} else {
		mode = m.styles.Idle.Render("◼ idle")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.AvatarMode.Render(character.Name)+"  "+mode,
		m.styles.VideoRef.Render(m.activeVideo),
	)
	return m.styles.AvatarPane.Width(m.width - 2).Render(content)
}

func (m Model) renderTranscript() string {
	turns := m.deps.State.Transcript()
	if len(turns) == 0 {
		return m.styles.Idle.Render("No messages yet. Say hello.")
	}

	width := m.viewport.Width - 4
	if width < 10 {
		width = 10
	}

	var b strings.Builder
	for _, turn := range turns {
		var line string
		if turn.Role == session.RoleUser {
			line = m.styles.UserMsg.MaxWidth(width).Render("You: " + turn.Text)
		} else {
			line = m.styles.AgentMsg.MaxWidth(width).Render(turn.Text)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderInput() string {
	label := ""
	if m.mode == inputPreference {
		label = m.styles.PrefLabel.Render(" preference ") + "\n"
	}
	return label + m.styles.Input.Width(m.width-2).Render(m.input.View())
}

func (m Model) renderNotice() string {
	if m.notice == "" {
		return ""
	}
	if m.noticeErr {
		return m.styles.ErrNotice.Render(m.notice)
	}
	return m.styles.Notice.Render(m.notice)
}
