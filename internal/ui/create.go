package ui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/memegen/internal/meme"
	"github.com/five82/memegen/internal/state"
	"github.com/five82/memegen/internal/studio"
)

// Create form fields, in focus order.
const (
	fieldPrompt = iota
	fieldCaption
	fieldFont
	fieldColor
	fieldStroke
	fieldSize
	createFieldCount
)

var createLabels = [createFieldCount]string{"Prompt", "Caption", "Font", "Color", "Stroke", "Size"}

// chatLines is how many chat entries the idea panel shows.
const chatLines = 6

type createForm struct {
	inputs   [createFieldCount]textinput.Model
	focus    int
	ideaMode bool
}

func newCreateForm() createForm {
	var f createForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 64
		f.inputs[i] = in
	}
	f.inputs[fieldPrompt].CharLimit = 500
	f.inputs[fieldPrompt].Placeholder = "a cat discovering Mondays"
	f.inputs[fieldCaption].CharLimit = 200
	f.inputs[fieldCaption].Placeholder = "caption text"
	f.inputs[fieldColor].CharLimit = 7
	f.inputs[fieldStroke].CharLimit = 7
	f.inputs[fieldSize].CharLimit = 3
	f.inputs[fieldPrompt].Focus()
	return f
}

// focusField moves focus to field i, wrapping at both ends.
func (f *createForm) focusField(i int) tea.Cmd {
	f.focus = (i%createFieldCount + createFieldCount) % createFieldCount
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

// load fills the form from mm.
func (f *createForm) load(mm meme.Meme) {
	ts := mm.TextSettings
	f.inputs[fieldPrompt].SetValue(mm.Prompt)
	f.inputs[fieldCaption].SetValue(mm.Caption)
	f.inputs[fieldFont].SetValue(ts.Font)
	f.inputs[fieldColor].SetValue(ts.Color)
	f.inputs[fieldStroke].SetValue(ts.StrokeColor)
	f.inputs[fieldSize].SetValue(strconv.Itoa(int(ts.SizePixels())))
}

// reset clears the form for a new meme using the given text defaults.
func (f *createForm) reset(d meme.Defaults) {
	f.load(meme.Meme{TextSettings: meme.TextSettings{
		Font:        d.Font,
		Color:       d.Color,
		StrokeColor: d.StrokeColor,
		Size:        meme.DefaultTextSize,
	}})
}

func (f createForm) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

type discardMsg struct{}

func (m Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.session != nil && m.session.Dirty() {
			m.modal = newConfirmModal("Discard changes?", "Caption edits have not been saved.", m.keys,
				func() tea.Msg { return discardMsg{} })
			return m, nil
		}
		return m, m.navigateCmd(state.ViewHome)
	case key.Matches(msg, m.keys.FieldUp):
		return m, m.create.focusField(m.create.focus - 1)
	case key.Matches(msg, m.keys.FieldDown):
		return m, m.create.focusField(m.create.focus + 1)
	case key.Matches(msg, m.keys.ToggleMode):
		m.create.ideaMode = !m.create.ideaMode
		return m, nil
	case key.Matches(msg, m.keys.ClearChat):
		return m, m.clearChatCmd()
	case key.Matches(msg, m.keys.Save):
		cmd := m.commitSession()
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		if m.create.focus != fieldPrompt {
			return m, m.create.focusField(m.create.focus + 1)
		}
		prompt := m.create.value(fieldPrompt)
		if prompt == "" {
			cmd := m.showError(studio.ErrEmptyPrompt)
			return m, cmd
		}
		return m.startGeneration(prompt, m.create.ideaMode)
	}

	i := m.create.focus
	var cmd tea.Cmd
	m.create.inputs[i], cmd = m.create.inputs[i].Update(msg)
	m.applyField(i)
	return m, cmd
}

// applyField copies a form field into the working meme. Colors and sizes
// that do not parse yet are left for the user to finish typing.
func (m *Model) applyField(i int) {
	if m.session == nil {
		return
	}
	v := m.create.value(i)
	switch i {
	case fieldCaption:
		m.session.SetCaption(m.create.inputs[i].Value())
		m.layoutPreview()
	case fieldFont:
		m.session.SetFont(v)
	case fieldColor:
		_ = m.session.SetColor(v)
	case fieldStroke:
		_ = m.session.SetStroke(v)
	case fieldSize:
		if px, err := strconv.Atoi(v); err == nil {
			_ = m.session.SetSize(px)
		}
	}
}

// commitSession validates the style fields and saves the working meme.
func (m *Model) commitSession() tea.Cmd {
	if m.session == nil {
		return m.showError(meme.ErrNoImage)
	}
	if err := m.session.SetColor(m.create.value(fieldColor)); err != nil {
		return m.showError(err)
	}
	if err := m.session.SetStroke(m.create.value(fieldStroke)); err != nil {
		return m.showError(err)
	}
	px, err := strconv.Atoi(m.create.value(fieldSize))
	if err != nil {
		return m.showError(fmt.Errorf("text size %q is not a number", m.create.value(fieldSize)))
	}
	if err := m.session.SetSize(px); err != nil {
		return m.showError(err)
	}
	saved, err := m.session.Commit(m.ctx)
	if err != nil {
		return m.showError(err)
	}
	m.create.load(saved)
	return m.showNotice("Meme saved")
}

func (m Model) clearChatCmd() tea.Cmd {
	svc, ctx := m.studio, m.ctx
	return func() tea.Msg {
		return actionMsg{done: "Idea chat cleared", err: svc.ClearHistory(ctx)}
	}
}

// renderCreateForm renders the editor fields and, in idea mode, the chat.
func (m Model) renderCreateForm() string {
	styles := m.theme.Styles()

	var b strings.Builder
	prompt, idea := styles.AccentText.Bold(true), styles.FaintText
	if m.create.ideaMode {
		prompt, idea = idea, prompt
	}
	b.WriteString(styles.MutedText.Render("Mode "))
	b.WriteString(prompt.Render("Prompt"))
	b.WriteString(styles.FaintText.Render(" | "))
	b.WriteString(idea.Render("Idea"))
	b.WriteString("\n\n")

	for i, label := range createLabels {
		if i == fieldCaption {
			b.WriteString("\n")
		}
		ls := styles.Label
		if i == m.create.focus {
			ls = styles.FocusedLabel
		}
		b.WriteString(ls.Render(label))
		b.WriteString(m.create.inputs[i].View())
		b.WriteString("\n")
	}

	if m.session != nil {
		pos := m.session.Working().TextSettings.Position
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("Caption at %.1f%%, %.1f%%", pos.X, pos.Y)))
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("Drag it in the preview to move it"))
		b.WriteString("\n")
	}

	if m.create.ideaMode {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Idea chat"))
		b.WriteString("\n")
		b.WriteString(m.renderChat(leftWidth(m.width)))
	}
	return b.String()
}

// renderChat shows the newest chat entries. Assistant replies are stored
// as idea JSON and shown as topic and caption.
func (m Model) renderChat(width int) string {
	styles := m.theme.Styles()
	history := m.snap.ChatHistory
	if len(history) == 0 {
		return styles.FaintText.Render("Ask for an idea: enter a topic and press enter")
	}
	if len(history) > chatLines {
		history = history[len(history)-chatLines:]
	}
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		if msg.Role == meme.RoleUser {
			lines = append(lines, styles.InfoText.Render("you ")+styles.Text.Render(truncate(msg.Content, width-4)))
			continue
		}
		lines = append(lines, styles.AccentText.Render("ai  ")+styles.Text.Render(truncate(ideaSummary(msg.Content), width-4)))
	}
	return strings.Join(lines, "\n")
}

func ideaSummary(content string) string {
	var idea meme.Idea
	if err := json.Unmarshal([]byte(content), &idea); err != nil || idea.Topic == "" {
		return content
	}
	if idea.Caption == "" {
		return idea.Topic
	}
	return idea.Topic + ": " + idea.Caption
}
