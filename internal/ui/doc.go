// Package ui provides the terminal user interface for memegen.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds only view state; all
// application state lives in a state.Store and every user action goes
// through a studio.Service. The model learns about store changes through a
// small bridge: observers registered on every slot push the changed key
// onto a buffered channel, and a command waiting on that channel turns it
// into a storeChangedMsg. The model then re-reads a snapshot, so notices
// can be coalesced without losing state.
//
// # Package Structure
//
//   - app.go: Model, Init/Update/View, background commands and Run
//   - bridge.go: store observer to tea.Msg bridge
//   - gallery.go: home view with the saved meme list
//   - create.go: editor form, idea chat and commit
//   - settings.go: preferences form and clear-all
//   - preview.go: half-block image canvas with the caption overlay
//   - mouse.go: translation of terminal mouse events into drag events
//   - header.go, notice.go: header, command bar and footer notices
//   - modal.go, help.go: confirm/share menus and the help overlay
//   - theme.go, style_helpers.go, layout.go, strings.go: presentation helpers
//
// # Views
//
// Three views follow the store's currentView slot:
//
//   - Gallery (home): saved memes newest first with a preview of the
//     selection. Memes can be edited, shared, downloaded, copied or deleted.
//   - Create: prompt or idea mode generation and the caption editor. The
//     caption can be dragged over the preview with the mouse; edits stay in
//     an editor.Session until ctrl+s commits them.
//   - Settings: API key, default font and colors. A blank key selects demo
//     mode, which produces placeholder images without network calls.
//
// # Preview Rendering
//
// Images are scaled with golang.org/x/image/draw to fit the preview area,
// two pixels per cell, and drawn with the upper half block using the top
// pixel as foreground and the bottom pixel as background. The caption is
// drawn on top in its fill color over its stroke color. The caption box
// and the canvas size feed the drag controller, so a drag in cells maps to
// the same percentage position the rendered PNG uses.
//
// # Key Bindings
//
// Gallery:
//
//	j/k, up/down    Move selection
//	g/G             Top/bottom
//	e, enter        Edit meme
//	s               Share menu (d download, c copy, s share)
//	x               Delete meme
//	n               New meme
//	,               Settings
//	T               Cycle theme
//	?               Help
//	q, ctrl+c       Quit
//
// Create and Settings:
//
//	up/down         Move between fields
//	tab             Toggle prompt/idea mode (Create)
//	enter           Generate (Create) or save (Settings)
//	ctrl+s          Save
//	ctrl+l          Clear idea chat
//	ctrl+x          Clear all data (Settings)
//	esc             Back to gallery
//
// # Themes
//
// Nightfox (default), Kanagawa and Slate. The selected theme is stored with
// the user preferences.
package ui
