package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/memegen/internal/editor"
	"github.com/five82/memegen/internal/prefs"
	"github.com/five82/memegen/internal/state"
)

const (
	settingAPIKey = iota
	settingFont
	settingColor
	settingStroke
	settingCount
)

var settingLabels = [settingCount]string{"API key", "Font", "Color", "Stroke"}

type settingsForm struct {
	inputs [settingCount]textinput.Model
	focus  int
}

func newSettingsForm() settingsForm {
	var f settingsForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		f.inputs[i] = in
	}
	f.inputs[settingAPIKey].CharLimit = 256
	f.inputs[settingAPIKey].EchoMode = textinput.EchoPassword
	f.inputs[settingAPIKey].Placeholder = "blank for demo mode"
	f.inputs[settingColor].CharLimit = 7
	f.inputs[settingStroke].CharLimit = 7
	f.inputs[settingAPIKey].Focus()
	return f
}

func (f *settingsForm) load(p prefs.Prefs) {
	f.inputs[settingAPIKey].SetValue(p.APIKey)
	f.inputs[settingFont].SetValue(p.DefaultFont)
	f.inputs[settingColor].SetValue(p.DefaultColor)
	f.inputs[settingStroke].SetValue(p.DefaultStrokeColor)
	f.focusField(settingAPIKey)
}

func (f *settingsForm) focusField(i int) tea.Cmd {
	f.focus = (i%settingCount + settingCount) % settingCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// toPrefs builds preferences from the form on top of base. Colors are
// validated and normalized.
func (f settingsForm) toPrefs(base prefs.Prefs) (prefs.Prefs, error) {
	p := base
	p.APIKey = strings.TrimSpace(f.inputs[settingAPIKey].Value())
	p.DefaultFont = strings.TrimSpace(f.inputs[settingFont].Value())
	color, err := editor.NormalizeColor(f.inputs[settingColor].Value())
	if err != nil {
		return base, err
	}
	stroke, err := editor.NormalizeColor(f.inputs[settingStroke].Value())
	if err != nil {
		return base, err
	}
	p.DefaultColor = color
	p.DefaultStrokeColor = stroke
	return p, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m, m.navigateCmd(state.ViewHome)
	case key.Matches(msg, m.keys.FieldUp):
		return m, m.settings.focusField(m.settings.focus - 1)
	case key.Matches(msg, m.keys.FieldDown), key.Matches(msg, m.keys.ToggleMode):
		return m, m.settings.focusField(m.settings.focus + 1)
	case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Save):
		p, err := m.settings.toPrefs(m.snap.UserPreferences)
		if err != nil {
			cmd := m.showError(err)
			return m, cmd
		}
		return m, m.saveSettingsCmd(p, "Settings saved")
	case key.Matches(msg, m.keys.ClearAll):
		m.modal = newConfirmModal("Clear all data?", "Saved memes and settings will be deleted.", m.keys, m.clearAllCmd())
		return m, nil
	}

	i := m.settings.focus
	var cmd tea.Cmd
	m.settings.inputs[i], cmd = m.settings.inputs[i].Update(msg)
	return m, cmd
}

func (m Model) clearAllCmd() tea.Cmd {
	svc, ctx := m.studio, m.ctx
	return func() tea.Msg {
		if err := svc.ClearAll(ctx); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{done: "All data cleared", err: svc.Navigate(ctx, state.ViewHome)}
	}
}

// renderSettingsForm renders the preferences form.
func (m Model) renderSettingsForm() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Settings"))
	b.WriteString("\n\n")
	for i, label := range settingLabels {
		ls := styles.Label
		if i == m.settings.focus {
			ls = styles.FocusedLabel
		}
		b.WriteString(ls.Render(label))
		b.WriteString(m.settings.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.snap.UserPreferences.Authenticated() {
		b.WriteString(styles.SuccessText.Render("Images are generated with your API key"))
	} else {
		b.WriteString(styles.WarningText.Render("Demo mode: placeholder images, no API calls"))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Theme " + m.theme.Name))
	return b.String()
}
