package editor

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/five82/memegen/internal/drag"
	"github.com/five82/memegen/internal/meme"
	"github.com/five82/memegen/internal/prefs"
	"github.com/five82/memegen/internal/state"
	"github.com/five82/memegen/internal/studio"
)

type nopGenerator struct{}

func (nopGenerator) GenerateImage(context.Context, string) (string, error) { return "", nil }
func (nopGenerator) GenerateIdea(context.Context, string) (meme.Idea, error) { return meme.Idea{}, nil }
func (nopGenerator) SetAPIKey(string) {}

func newMeme() meme.Meme {
	return meme.New("cat", "aW1n", prefs.Default().MemeDefaults(), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestSession_DragThenCommit(t *testing.T) {
	ctx := context.Background()
	store := state.New(nil)
	svc := studio.New(store, nopGenerator{})
	t.Cleanup(svc.Close)

	var broadcasts int
	store.Subscribe(state.KeySavedMemes, func(any) { broadcasts++ })
	store.Subscribe(state.KeyCurrentMeme, func(any) { broadcasts++ })

	s := New(newMeme(), svc)
	s.SetLayout(drag.Size{W: 500, H: 400}, drag.Size{W: 40, H: 20})
	if s.Offset() != (drag.Point{X: 230, Y: 190}) {
		t.Fatalf("offset = %+v, want {230 190}", s.Offset())
	}

	ctrl := s.Drag()
	ctrl.Handle(drag.Event{Kind: drag.KindStart, Point: drag.Point{X: 100, Y: 100}, OnTarget: true})
	for _, p := range []drag.Point{{X: 120, Y: 110}, {X: 140, Y: 120}, {X: 150, Y: 130}} {
		ctrl.Handle(drag.Event{Kind: drag.KindMove, Point: p})
	}
	ctrl.Handle(drag.Event{Kind: drag.KindEnd})

	pos := s.Working().TextSettings.Position
	if math.Abs(pos.X-60) > 1e-9 || math.Abs(pos.Y-57.5) > 1e-9 {
		t.Fatalf("position = %+v, want {60 57.5}", pos)
	}
	if broadcasts != 0 || len(store.SavedMemes()) != 0 {
		t.Fatalf("drag reached the store: %d notifications", broadcasts)
	}
	if !s.Dirty() {
		t.Fatalf("session not dirty after drag")
	}

	s.SetCaption("hello")
	saved, err := s.Commit(ctx)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	stored := store.SavedMemes()
	if len(stored) != 1 || stored[0].Caption != "hello" || stored[0].TextSettings.Position != pos {
		t.Fatalf("stored = %#v", stored)
	}
	if saved.ID != stored[0].ID || s.Dirty() {
		t.Fatalf("session not rebased after commit")
	}
}

func TestSession_Edits(t *testing.T) {
	s := New(newMeme(), nil)

	s.SetFont("  Comic Sans ")
	s.SetFont("   ")
	if got := s.Working().TextSettings.Font; got != "Comic Sans" {
		t.Fatalf("font = %q", got)
	}

	if err := s.SetColor("FF0000"); err != nil {
		t.Fatalf("SetColor: %v", err)
	}
	if got := s.Working().TextSettings.Color; got != "#ff0000" {
		t.Fatalf("color = %q, want #ff0000", got)
	}
	if err := s.SetStroke("#00ff00"); err != nil {
		t.Fatalf("SetStroke: %v", err)
	}
	if err := s.SetColor("not-a-color"); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("SetColor(bad) = %v, want ErrInvalidColor", err)
	}
	if got := s.Working().TextSettings.Color; got != "#ff0000" {
		t.Fatalf("bad color changed value to %q", got)
	}

	if err := s.SetSize(48); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if got := s.Working().TextSettings.Size; got != "48px" {
		t.Fatalf("size = %q", got)
	}
	if err := s.SetSize(2); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("SetSize(2) = %v, want ErrInvalidSize", err)
	}
}

func TestSession_Contains(t *testing.T) {
	s := New(newMeme(), nil)
	s.SetLayout(drag.Size{W: 100, H: 10}, drag.Size{W: 10, H: 1})

	cases := []struct {
		p    drag.Point
		want bool
	}{
		{drag.Point{X: 45, Y: 4.5}, true},
		{drag.Point{X: 54.9, Y: 5}, true},
		{drag.Point{X: 55, Y: 5}, false},
		{drag.Point{X: 50, Y: 2}, false},
	}
	for _, tc := range cases {
		if got := s.Contains(tc.p); got != tc.want {
			t.Fatalf("Contains(%+v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestSession_SetPositionRelayouts(t *testing.T) {
	s := New(newMeme(), nil)
	s.SetLayout(drag.Size{W: 200, H: 100}, drag.Size{W: 20, H: 10})
	s.SetPosition(meme.Position{X: 10, Y: 90})
	if s.Offset() != (drag.Point{X: 10, Y: 85}) {
		t.Fatalf("offset = %+v, want {10 85}", s.Offset())
	}
}
