// Package editor holds the working copy of a meme while it is being edited.
//
// Edits and drag updates touch only the working copy. Nothing reaches the
// state store until Commit, so intermediate drag positions are never
// persisted or broadcast. A Session is driven from a single goroutine.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/five82/memegen/internal/drag"
	"github.com/five82/memegen/internal/meme"
)

// Caption sizes accepted by SetSize, in pixels.
const (
	MinTextSize = 8
	MaxTextSize = 200
)

var (
	// ErrInvalidColor is returned for a color that is not a #rrggbb hex value.
	ErrInvalidColor = errors.New("invalid color")
	// ErrInvalidSize is returned for a text size outside the allowed range.
	ErrInvalidSize = errors.New("invalid text size")
)

// Saver commits a finished meme.
type Saver interface {
	Save(ctx context.Context, m meme.Meme) (meme.Meme, error)
}

// Session is an edit of one meme. It doubles as the drag target (the
// caption box) and the drag container (the preview area).
type Session struct {
	working  meme.Meme
	original meme.Meme
	saver    Saver
	ctrl     *drag.Controller

	bounds  drag.Size
	caption drag.Size
	offset  drag.Point
}

var (
	_ drag.Target    = (*Session)(nil)
	_ drag.Container = (*Session)(nil)
)

// New starts an edit of m.
func New(m meme.Meme, saver Saver) *Session {
	s := &Session{working: m, original: m, saver: saver}
	s.ctrl = drag.New(s, s, &s.working.TextSettings.Position)
	return s
}

// Working returns a copy of the working meme.
func (s *Session) Working() meme.Meme {
	return s.working
}

// Dirty reports whether the working copy differs from the meme the session
// started with.
func (s *Session) Dirty() bool {
	return s.working != s.original
}

// Drag returns the controller bound to the caption position.
func (s *Session) Drag() *drag.Controller {
	return s.ctrl
}

// SetLayout records the preview size and the caption box size and places
// the caption box from the stored position.
func (s *Session) SetLayout(bounds, caption drag.Size) {
	s.bounds = bounds
	s.caption = caption
	pos := s.working.TextSettings.Position
	s.offset = drag.Point{
		X: pos.X/100*bounds.W - caption.W/2,
		Y: pos.Y/100*bounds.H - caption.H/2,
	}
}

// Offset implements drag.Target.
func (s *Session) Offset() drag.Point { return s.offset }

// Size implements drag.Target.
func (s *Session) Size() drag.Size { return s.caption }

// MoveTo implements drag.Target.
func (s *Session) MoveTo(p drag.Point) { s.offset = p }

// Bounds implements drag.Container.
func (s *Session) Bounds() drag.Size { return s.bounds }

// Contains reports whether p falls on the caption box.
func (s *Session) Contains(p drag.Point) bool {
	return p.X >= s.offset.X && p.X < s.offset.X+s.caption.W &&
		p.Y >= s.offset.Y && p.Y < s.offset.Y+s.caption.H
}

// SetCaption replaces the working caption. Any text is accepted, including "".
func (s *Session) SetCaption(caption string) {
	s.working.Caption = caption
}

// SetFont sets the caption font. A blank name leaves the font unchanged.
func (s *Session) SetFont(font string) {
	if font = strings.TrimSpace(font); font != "" {
		s.working.TextSettings.Font = font
	}
}

// SetColor sets the fill color.
func (s *Session) SetColor(hex string) error {
	c, err := NormalizeColor(hex)
	if err != nil {
		return err
	}
	s.working.TextSettings.Color = c
	return nil
}

// SetStroke sets the outline color.
func (s *Session) SetStroke(hex string) error {
	c, err := NormalizeColor(hex)
	if err != nil {
		return err
	}
	s.working.TextSettings.StrokeColor = c
	return nil
}

// SetSize sets the caption size in pixels.
func (s *Session) SetSize(px int) error {
	if px < MinTextSize || px > MaxTextSize {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidSize, px, MinTextSize, MaxTextSize)
	}
	s.working.TextSettings.Size = fmt.Sprintf("%dpx", px)
	return nil
}

// SetPosition places the caption center directly, as percentages.
func (s *Session) SetPosition(pos meme.Position) {
	s.working.TextSettings.Position = pos
	s.SetLayout(s.bounds, s.caption)
}

// Commit saves the working copy and makes the saved value the new baseline.
func (s *Session) Commit(ctx context.Context) (meme.Meme, error) {
	saved, err := s.saver.Save(ctx, s.working)
	if err != nil {
		return meme.Meme{}, err
	}
	s.working = saved
	s.original = saved
	return saved, nil
}

// NormalizeColor validates a hex color, adding a missing "#", and returns it
// in lowercase #rrggbb form.
func NormalizeColor(hex string) (string, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return c.Hex(), nil
}
