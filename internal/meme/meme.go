// Package meme defines the meme record, generated ideas and chat entries.
package meme

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// DefaultTextSize is the caption size assigned to new memes.
	DefaultTextSize = "36px"
	// DefaultPosition is the caption center assigned to new memes.
	DefaultPosition = 50.0
)

// ErrNoImage is returned when a meme carries no image payload.
var ErrNoImage = errors.New("meme has no image data")

// Position is the caption center as percentages of the image container.
// Values are not clamped and may fall outside [0,100].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextSettings describes how the caption is drawn over the image.
type TextSettings struct {
	Font        string   `json:"font"`
	Color       string   `json:"color"`
	StrokeColor string   `json:"strokeColor"`
	Size        string   `json:"size"`
	Position    Position `json:"position"`
}

// SizePixels parses Size ("36px" or "36"). Unparsable or non-positive
// values yield the default size.
func (t TextSettings) SizePixels() float64 {
	raw := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(t.Size)), "px")
	px, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || px <= 0 {
		return defaultTextPixels
	}
	return px
}

const defaultTextPixels = 36

// Meme is one generated image plus its caption overlay.
type Meme struct {
	ID           string       `json:"id"`
	Prompt       string       `json:"prompt"`
	ImageData    string       `json:"imageData"`
	Caption      string       `json:"caption"`
	TextSettings TextSettings `json:"textSettings"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Defaults carries the user defaults applied to a new meme's text settings.
type Defaults struct {
	Font        string
	Color       string
	StrokeColor string
}

// New builds a meme stamped at now. The id is a ULID carrying the same timestamp.
func New(prompt, imageData string, defaults Defaults, now time.Time) Meme {
	now = now.UTC()
	return Meme{
		ID:        NewID(now),
		Prompt:    prompt,
		ImageData: imageData,
		CreatedAt: now,
		TextSettings: TextSettings{
			Font:        defaults.Font,
			Color:       defaults.Color,
			StrokeColor: defaults.StrokeColor,
			Size:        DefaultTextSize,
			Position:    Position{X: DefaultPosition, Y: DefaultPosition},
		},
	}
}

// NewID returns a time-ordered identifier for a meme created at t.
func NewID(t time.Time) string {
	return ulid.MustNew(ulid.Timestamp(t), ulid.DefaultEntropy()).String()
}

// HasImage reports whether the meme carries an image payload.
func (m Meme) HasImage() bool {
	return strings.TrimSpace(m.ImageData) != ""
}

// Image decodes the base64 image payload.
func (m Meme) Image() ([]byte, error) {
	if !m.HasImage() {
		return nil, ErrNoImage
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(m.ImageData))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return data, nil
}

// Title returns the caption, or the prompt when the caption is blank.
func (m Meme) Title() string {
	if c := strings.TrimSpace(m.Caption); c != "" {
		return c
	}
	return strings.TrimSpace(m.Prompt)
}

// Clone returns an independent copy of the list.
func Clone(memes []Meme) []Meme {
	if len(memes) == 0 {
		return nil
	}
	dup := make([]Meme, len(memes))
	copy(dup, memes)
	return dup
}

// SortNewestFirst returns a copy sorted by creation time, newest first.
func SortNewestFirst(memes []Meme) []Meme {
	sorted := Clone(memes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// Find returns the meme with the given id.
func Find(memes []Meme, id string) (Meme, bool) {
	for _, m := range memes {
		if m.ID == id {
			return m, true
		}
	}
	return Meme{}, false
}

// Remove returns a copy of memes without the first record matching id and
// reports whether one was removed.
func Remove(memes []Meme, id string) ([]Meme, bool) {
	out := make([]Meme, 0, len(memes))
	removed := false
	for _, m := range memes {
		if !removed && m.ID == id {
			removed = true
			continue
		}
		out = append(out, m)
	}
	return out, removed
}

// Upsert replaces the record with the same id or appends m.
func Upsert(memes []Meme, m Meme) []Meme {
	out := Clone(memes)
	for i := range out {
		if out[i].ID == m.ID {
			out[i] = m
			return out
		}
	}
	return append(out, m)
}
