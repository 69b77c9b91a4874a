package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// notice is a transient message shown in the footer.
type notice struct {
	id    int
	text  string
	isErr bool
}

type noticeExpiredMsg struct {
	id int
}

func (m *Model) showNotice(text string) tea.Cmd {
	return m.setNotice(text, false)
}

func (m *Model) showError(err error) tea.Cmd {
	m.logger.Printf("ui: %v", err)
	return m.setNotice(err.Error(), true)
}

// setNotice replaces the current notice. Only the expiry carrying the
// matching id clears it, so a newer notice outlives older timers.
func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeN++
	id := m.noticeN
	m.notice = notice{id: id, text: text, isErr: isErr}
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}

// renderFooter renders the notice line.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var content string
	switch {
	case m.notice.isErr:
		content = bg.Render("!", styles.DangerText) + bg.Space() + bg.Render(m.notice.text, styles.WarningText)
	case m.notice.text != "":
		content = bg.Render(m.notice.text, styles.SuccessText)
	default:
		content = bg.Render("?", styles.AccentText) + bg.Space() + bg.Render("help", styles.FaintText)
	}
	return styles.Footer.Width(m.width).MaxWidth(m.width).Render(content)
}
