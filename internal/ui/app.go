package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/memegen/internal/drag"
	"github.com/five82/memegen/internal/editor"
	"github.com/five82/memegen/internal/meme"
	"github.com/five82/memegen/internal/share"
	"github.com/five82/memegen/internal/state"
	"github.com/five82/memegen/internal/studio"
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Studio      *studio.Service
	Sharer      share.Sharer
	DownloadDir string
	// Terminal receives OSC 52 clipboard sequences. Nil uses os.Stderr.
	Terminal io.Writer
	Logger   *log.Logger
	Now      func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	studio      *studio.Service
	store       *state.Store
	watch       *storeWatch
	sharer      share.Sharer
	copier      share.Copier
	downloadDir string
	logger      *log.Logger
	now         func() time.Time

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
	modal    Modal
	spinner  spinner.Model
	pending  bool
	notice   notice
	noticeN  int

	// Data state
	snap     state.State
	view     state.View
	selected int

	// Editor state
	create   createForm
	settings settingsForm
	session  *editor.Session
	preview  *previewCache
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	term := opts.Terminal
	if term == nil {
		term = os.Stderr
	}

	store := opts.Studio.Store()
	m := Model{
		ctx:         ctx,
		studio:      opts.Studio,
		store:       store,
		watch:       watchStore(store),
		sharer:      opts.Sharer,
		copier:      share.NewCopier(term),
		downloadDir: opts.DownloadDir,
		logger:      logger,
		now:         now,
		keys:        DefaultKeyMap(),
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		create:      newCreateForm(),
		settings:    newSettingsForm(),
		preview:     &previewCache{},
	}
	m.refresh()
	return m
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(opts Options) error {
	m := New(opts)
	defer m.watch.stop()

	p := tea.NewProgram(m,
		tea.WithContext(m.ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.watch.next()
}

// Messages produced by background commands.
type (
	// generatedMsg carries the result of an image or idea generation.
	generatedMsg struct {
		idea *meme.Idea
		err  error
	}

	// actionMsg reports a finished store or share action.
	actionMsg struct {
		done string
		err  error
	}
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layoutPreview()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.BlurMsg:
		if m.session != nil {
			m.session.Drag().Handle(drag.Event{Kind: drag.KindCancel, Source: drag.SourceMouse})
		}
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, m.watch.next()

	case generatedMsg:
		m.pending = false
		var cmd tea.Cmd
		switch {
		case msg.err != nil:
			cmd = m.showError(msg.err)
		case msg.idea != nil:
			cmd = m.showNotice("Idea: " + msg.idea.Topic)
		default:
			cmd = m.showNotice("Meme generated")
		}
		return m, cmd

	case actionMsg:
		var cmd tea.Cmd
		switch {
		case msg.err != nil:
			cmd = m.showError(msg.err)
		case msg.done != "":
			cmd = m.showNotice(msg.done)
		}
		return m, cmd

	case discardMsg:
		// Rebuild the session from the stored meme.
		m.session = nil
		m.refresh()
		return m, m.navigateCmd(state.ViewHome)

	case noticeExpiredMsg:
		if msg.id == m.notice.id {
			m.notice = notice{}
		}
		return m, nil

	case spinner.TickMsg:
		if !m.pending && !m.snap.IsGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	bodyHeight := m.height - headerHeight - footerHeight
	if bodyHeight < 0 {
		bodyHeight = 0
	}

	var left string
	switch m.view {
	case state.ViewCreate:
		left = m.renderCreateForm()
	case state.ViewSettings:
		left = m.renderSettingsForm()
	default:
		left = m.renderGallery(bodyHeight)
	}

	lw := leftWidth(m.width)
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(lw).MaxWidth(lw).Height(bodyHeight).MaxHeight(bodyHeight).Render(left),
		lipgloss.NewStyle().Width(columnGap).Render(""),
		lipgloss.NewStyle().MaxHeight(bodyHeight).Render(m.renderPreview()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCommandBar(),
		lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body),
		m.renderFooter(),
	)
}

// refresh re-reads the store and reconciles the view state with it.
func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	m.theme = GetTheme(m.snap.UserPreferences.Theme)

	if m.snap.CurrentView != m.view {
		m.enterView(m.snap.CurrentView)
	}

	if n := len(m.snap.SavedMemes); m.selected >= n {
		m.selected = max(0, n-1)
	}

	cur := m.snap.CurrentMeme
	switch {
	case cur == nil:
		if m.session != nil {
			m.create.reset(m.snap.UserPreferences.MemeDefaults())
		}
		m.session = nil
	case m.session == nil || m.session.Working().ID != cur.ID:
		m.session = editor.New(*cur, m.studio)
		m.create.load(*cur)
	}
	m.layoutPreview()
}

// enterView prepares the forms of the view being switched to.
func (m *Model) enterView(v state.View) {
	m.view = v
	switch v {
	case state.ViewCreate:
		m.create.focusField(m.create.focus)
	case state.ViewSettings:
		m.settings.load(m.snap.UserPreferences)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	switch m.view {
	case state.ViewCreate:
		return m.handleCreateKey(msg)
	case state.ViewSettings:
		return m.handleSettingsKey(msg)
	default:
		return m.handleGalleryKey(msg)
	}
}

// handleMouse forwards pointer events over the preview to the caption drag.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.view != state.ViewCreate || m.session == nil {
		return
	}
	origin := previewArea(m.width, m.height).Min
	ev, ok := dragEvent(msg, origin, m.session.Contains)
	if !ok {
		return
	}
	m.session.Drag().Handle(ev)
}

// layoutPreview sizes the drag container and caption box from the canvas
// the current meme is drawn on.
func (m *Model) layoutPreview() {
	if m.session == nil || !m.ready {
		return
	}
	c, ok := m.canvasFor(m.session.Working())
	if !ok {
		return
	}
	caption := captionText(m.session.Working().Caption)
	m.session.SetLayout(
		drag.Size{W: float64(c.W), H: float64(c.H)},
		drag.Size{W: float64(captionWidth(caption)), H: 1},
	)
}

// canvasFor scales the meme image into the preview area.
func (m Model) canvasFor(mm meme.Meme) (canvas, bool) {
	img, err := m.preview.image(mm)
	if err != nil {
		return canvas{}, false
	}
	area := previewArea(m.width, m.height)
	c := newCanvas(img, area.Dx(), area.Dy())
	return c, c.W > 0
}

// renderPreview draws the title line and canvas for the meme in focus.
func (m Model) renderPreview() string {
	styles := m.theme.Styles()

	var (
		mm    meme.Meme
		ok    bool
		title string
	)
	switch m.view {
	case state.ViewCreate:
		if m.session != nil {
			mm, ok = m.session.Working(), true
			title = "Preview"
			if m.session.Dirty() {
				title += " (unsaved)"
			}
		}
	case state.ViewHome:
		mm, ok = m.selectedMeme()
		title = "Preview"
	}
	if !ok {
		hint := "Nothing to preview"
		if m.view == state.ViewCreate {
			hint = "Enter a prompt and press enter to generate"
		}
		return styles.FaintText.Render(hint)
	}

	c, drawn := m.canvasFor(mm)
	if !drawn {
		return styles.MutedText.Render(title) + "\n" + styles.DangerText.Render("Image cannot be displayed")
	}

	head := styles.MutedText.Render(title) + "\n"
	if m.view == state.ViewCreate {
		off := m.session.Offset()
		ov := overlayAt(off.X, off.Y, mm.Caption, mm.TextSettings)
		return head + c.render(&ov)
	}
	if mm.Caption == "" {
		return head + c.render(nil)
	}
	w := float64(captionWidth(captionText(mm.Caption)))
	pos := mm.TextSettings.Position
	ov := overlayAt(pos.X/100*float64(c.W)-w/2, pos.Y/100*float64(c.H)-0.5, mm.Caption, mm.TextSettings)
	return head + c.render(&ov)
}

// Commands

func (m Model) generateCmd(prompt string, idea bool) tea.Cmd {
	svc, ctx := m.studio, m.ctx
	return func() tea.Msg {
		if idea {
			_, got, err := svc.GenerateFromIdea(ctx, prompt)
			if err != nil {
				return generatedMsg{err: err}
			}
			return generatedMsg{idea: &got}
		}
		_, err := svc.Generate(ctx, prompt)
		return generatedMsg{err: err}
	}
}

func (m Model) navigateCmd(v state.View) tea.Cmd {
	svc, ctx := m.studio, m.ctx
	return func() tea.Msg {
		return actionMsg{err: svc.Navigate(ctx, v)}
	}
}

func (m Model) startGeneration(prompt string, idea bool) (Model, tea.Cmd) {
	if m.pending || m.snap.IsGenerating {
		cmd := m.showError(studio.ErrBusy)
		return m, cmd
	}
	m.pending = true
	return m, tea.Batch(m.generateCmd(prompt, idea), m.spinner.Tick)
}

func (m Model) downloadCmd(mm meme.Meme) tea.Cmd {
	dir, now := m.downloadDir, m.now
	return func() tea.Msg {
		path, err := share.Download(mm, dir, now())
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{done: "Saved " + path}
	}
}

func (m Model) copyCmd(mm meme.Meme) tea.Cmd {
	copier := m.copier
	return func() tea.Msg {
		method, err := share.CopyToClipboard(mm, copier)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{done: fmt.Sprintf("Copied to clipboard (%s)", method)}
	}
}

func (m Model) shareCmd(mm meme.Meme) tea.Cmd {
	ctx, sharer, dir, now := m.ctx, m.sharer, m.downloadDir, m.now
	return func() tea.Msg {
		path, err := share.Share(ctx, mm, sharer, dir, now())
		if err != nil {
			return actionMsg{err: err}
		}
		if path != "" {
			return actionMsg{done: "Sharing unavailable, saved " + path}
		}
		return actionMsg{done: "Shared"}
	}
}

// shareMenu offers the share actions for mm.
func (m Model) shareMenu(mm meme.Meme) Modal {
	return menuModal{
		title: "Share",
		body:  truncate(mm.Title(), 34),
		choices: []choice{
			{binding: m.keys.Download, cmd: m.downloadCmd(mm)},
			{binding: m.keys.Copy, cmd: m.copyCmd(mm)},
			{binding: m.keys.System, cmd: m.shareCmd(mm)},
		},
	}
}
