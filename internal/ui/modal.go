package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// choice is one action offered by a menu modal.
type choice struct {
	binding key.Binding
	cmd     tea.Cmd
}

// menuModal offers a fixed set of keyed actions. Escape closes it without
// running anything.
type menuModal struct {
	title   string
	body    string
	choices []choice
}

// newConfirmModal asks a yes/no question and runs onYes when confirmed.
func newConfirmModal(title, body string, keys keyMap, onYes tea.Cmd) menuModal {
	return menuModal{
		title: title,
		body:  body,
		choices: []choice{
			{binding: keys.Yes, cmd: onYes},
			{binding: keys.No},
		},
	}
}

func (m menuModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil, false
	}
	for _, c := range m.choices {
		if key.Matches(keyMsg, c.binding) {
			return m, c.cmd, true
		}
	}
	if key.Matches(keyMsg, keys.Escape) || key.Matches(keyMsg, keys.ForceQuit) {
		return m, nil, true
	}
	return m, nil, false
}

func (m menuModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(m.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n")
	if m.body != "" {
		b.WriteString(styles.MutedText.Render(m.body))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	for _, c := range m.choices {
		h := c.binding.Help()
		keyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.Warning)).
			Width(8)
		b.WriteString(keyStyle.Render(h.Key))
		b.WriteString(styles.Text.Render(h.Desc))
		b.WriteString("\n")
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(40).
		Render(strings.TrimRight(b.String(), "\n"))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
