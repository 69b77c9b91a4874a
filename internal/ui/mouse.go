package ui

import (
	"image"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/memegen/internal/drag"
)

// dragEvent translates a terminal mouse event into a drag event relative to
// the canvas origin. Only the left button and plain motion are forwarded.
func dragEvent(msg tea.MouseMsg, origin image.Point, onTarget func(drag.Point) bool) (drag.Event, bool) {
	p := drag.Point{X: float64(msg.X - origin.X), Y: float64(msg.Y - origin.Y)}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return drag.Event{}, false
		}
		return drag.Event{Kind: drag.KindStart, Source: drag.SourceMouse, Point: p, OnTarget: onTarget(p)}, true
	case tea.MouseActionMotion:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
			return drag.Event{}, false
		}
		return drag.Event{Kind: drag.KindMove, Source: drag.SourceMouse, Point: p}, true
	case tea.MouseActionRelease:
		return drag.Event{Kind: drag.KindEnd, Source: drag.SourceMouse, Point: p}, true
	}
	return drag.Event{}, false
}
