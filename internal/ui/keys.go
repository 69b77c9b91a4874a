package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
//
// Bindings under "Forms" stay active while a text field has focus, so they
// avoid printable keys.
type keyMap struct {
	// Global
	Quit       key.Binding
	ForceQuit  key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Gallery
	Up       key.Binding
	Down     key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Share    key.Binding
	Create   key.Binding
	Settings key.Binding

	// Share menu
	Download key.Binding
	Copy     key.Binding
	System   key.Binding

	// Forms
	FieldUp    key.Binding
	FieldDown  key.Binding
	ToggleMode key.Binding
	Submit     key.Binding
	Save       key.Binding
	ClearChat  key.Binding
	ClearAll   key.Binding

	// Confirm
	Yes key.Binding
	No  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit from anywhere"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to gallery"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "enter"),
			key.WithHelp("e/enter", "Edit meme"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete meme"),
		),
		Share: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Share menu"),
		),
		Create: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New meme"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "Settings"),
		),

		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Download PNG"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Copy to clipboard"),
		),
		System: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Share"),
		),

		FieldUp: key.NewBinding(
			key.WithKeys("up", "shift+tab"),
			key.WithHelp("up", "Previous field"),
		),
		FieldDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("down", "Next field"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Prompt/idea mode"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Generate / save settings"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Save"),
		),
		ClearChat: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "Clear idea chat"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "Clear all data"),
		),

		Yes: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y", "Confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "Cancel"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Gallery
		{k.Up, k.Down, k.Top, k.Bottom, k.Edit, k.Delete, k.Share, k.Create, k.Settings},
		// Share menu
		{k.Download, k.Copy, k.System},
		// Editor
		{k.FieldUp, k.FieldDown, k.ToggleMode, k.Submit, k.Save, k.ClearChat, k.ClearAll},
		// General
		{k.CycleTheme, k.Escape, k.Help, k.Quit, k.ForceQuit},
	}
}
