package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/memegen/internal/meme"
	"github.com/five82/memegen/internal/prefs"
	"github.com/five82/memegen/internal/state"
)

// gallery returns saved memes in display order, newest first.
func (m Model) gallery() []meme.Meme {
	return meme.SortNewestFirst(m.snap.SavedMemes)
}

func (m Model) selectedMeme() (meme.Meme, bool) {
	items := m.gallery()
	if m.selected < 0 || m.selected >= len(items) {
		return meme.Meme{}, false
	}
	return items[m.selected], true
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snap.SavedMemes)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		next := m.snap.UserPreferences
		next.Theme = NextTheme(m.theme.Name)
		m.theme = GetTheme(next.Theme)
		return m, m.saveSettingsCmd(next, "")
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < n-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(0, n-1)
	case key.Matches(msg, m.keys.Create):
		return m, m.newMemeCmd()
	case key.Matches(msg, m.keys.Settings):
		return m, m.navigateCmd(state.ViewSettings)
	case key.Matches(msg, m.keys.Edit):
		if sel, ok := m.selectedMeme(); ok {
			return m, m.editCmd(sel.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if sel, ok := m.selectedMeme(); ok {
			m.modal = newConfirmModal("Delete meme?", truncate(sel.Title(), 34), m.keys, m.deleteCmd(sel.ID))
		}
	case key.Matches(msg, m.keys.Share):
		if sel, ok := m.selectedMeme(); ok {
			m.modal = m.shareMenu(sel)
		}
	}
	return m, nil
}

func (m Model) editCmd(id string) tea.Cmd {
	svc, ctx := m.studio, m.ctx
	return func() tea.Msg {
		_, err := svc.Edit(ctx, id)
		return actionMsg{err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	svc, ctx := m.studio, m.ctx
	return func() tea.Msg {
		removed, err := svc.Delete(ctx, id)
		if err != nil {
			return actionMsg{err: err}
		}
		if !removed {
			return actionMsg{done: "Meme already deleted"}
		}
		return actionMsg{done: "Meme deleted"}
	}
}

// newMemeCmd clears the current meme and opens the editor.
func (m Model) newMemeCmd() tea.Cmd {
	store, svc, ctx := m.store, m.studio, m.ctx
	return func() tea.Msg {
		if err := store.Set(ctx, state.KeyCurrentMeme, nil); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{err: svc.Navigate(ctx, state.ViewCreate)}
	}
}

func (m Model) saveSettingsCmd(p prefs.Prefs, done string) tea.Cmd {
	svc, ctx := m.studio, m.ctx
	return func() tea.Msg {
		_, err := svc.SaveSettings(ctx, p)
		return actionMsg{done: done, err: err}
	}
}

// renderGallery renders the saved meme list.
func (m Model) renderGallery(height int) string {
	styles := m.theme.Styles()
	width := leftWidth(m.width)

	items := m.gallery()
	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Saved memes"))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(styles.FaintText.Render("No memes yet. Press n to create one."))
		return b.String()
	}

	// Keep the selection visible.
	rows := max(1, height-1)
	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(len(items), start+rows)

	now := m.now()
	for i := start; i < end; i++ {
		item := items[i]
		when := relativeTime(item.CreatedAt, now)
		title := truncate(item.Title(), width-len(when)-3)
		pad := width - len([]rune(title)) - len(when) - 2
		line := " " + title + strings.Repeat(" ", max(1, pad)) + when
		if i == m.selected {
			b.WriteString(styles.Selected.Width(width).Render(line))
		} else {
			b.WriteString(styles.Text.Render(" "+title) + strings.Repeat(" ", max(1, pad)) + styles.FaintText.Render(when))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
