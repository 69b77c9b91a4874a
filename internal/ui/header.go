package ui

import (
	"strconv"
	"strings"

	"github.com/five82/memegen/internal/state"
)

var viewTabs = []struct {
	view  state.View
	label string
}{
	{state.ViewHome, "Gallery"},
	{state.ViewCreate, "Create"},
	{state.ViewSettings, "Settings"},
}

// renderHeader renders the logo, view tabs and generation status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("memegen", styles.Logo)}

	tabs := make([]string, 0, len(viewTabs))
	for _, tab := range viewTabs {
		if tab.view == m.view {
			tabs = append(tabs, bg.Render("["+tab.label+"]", styles.AccentText.Bold(true)))
		} else {
			tabs = append(tabs, bg.Render(tab.label, styles.MutedText))
		}
	}
	parts = append(parts, strings.Join(tabs, bg.Space()))

	p := m.snap.UserPreferences
	if p.Authenticated() {
		parts = append(parts, bg.Render("API", styles.SuccessText)+bg.Space()+bg.Render(p.MaskedKey(), styles.FaintText))
	} else {
		parts = append(parts, bg.Render("DEMO MODE", styles.WarningText.Bold(true)))
	}

	parts = append(parts, bg.Render("Saved:", styles.MutedText)+bg.Space()+
		bg.Render(strconv.Itoa(len(m.snap.SavedMemes)), styles.Text))

	if m.pending || m.snap.IsGenerating {
		parts = append(parts, bg.Render(m.spinner.View()+" Generating...", styles.InfoText))
	}

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.view {
	case state.ViewCreate:
		mode := "Idea mode"
		if m.create.ideaMode {
			mode = "Prompt mode"
		}
		commands = []cmd{
			{"enter", "Generate"},
			{"tab", mode},
			{"up/down", "Field"},
			{"drag", "Move caption"},
			{"ctrl+s", "Save"},
			{"esc", "Gallery"},
		}
	case state.ViewSettings:
		commands = []cmd{
			{"up/down", "Field"},
			{"enter", "Save"},
			{"ctrl+x", "Clear data"},
			{"esc", "Gallery"},
		}
	default:
		commands = []cmd{
			{"j/k", "Navigate"},
			{"e", "Edit"},
			{"s", "Share"},
			{"x", "Delete"},
			{"n", "New"},
			{",", "Settings"},
			{"?", "More"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxWidth(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
