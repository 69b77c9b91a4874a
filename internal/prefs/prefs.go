// Package prefs defines the user preferences persisted with the saved memes.
package prefs

import (
	"strings"

	"github.com/five82/memegen/internal/meme"
)

// Prefs holds user preferences. APIKey is always encoded, as "" when unset.
type Prefs struct {
	DefaultFont        string `json:"defaultFont"`
	DefaultColor       string `json:"defaultColor"`
	DefaultStrokeColor string `json:"defaultStrokeColor"`
	APIKey             string `json:"apiKey"`
	Theme              string `json:"theme,omitempty"`
}

const (
	defaultFont        = "Impact"
	defaultColor       = "#ffffff"
	defaultStrokeColor = "#000000"
	defaultTheme       = "Nightfox"
)

// Default returns the preferences used before anything is saved.
func Default() Prefs {
	return Prefs{
		DefaultFont:        defaultFont,
		DefaultColor:       defaultColor,
		DefaultStrokeColor: defaultStrokeColor,
		Theme:              defaultTheme,
	}
}

// DefaultThemeName returns the theme used when none is stored.
func DefaultThemeName() string {
	return defaultTheme
}

// Normalize trims every field and restores blank defaults. A blank APIKey
// stays blank.
func (p Prefs) Normalize() Prefs {
	p.APIKey = strings.TrimSpace(p.APIKey)
	p.DefaultFont = orDefault(p.DefaultFont, defaultFont)
	p.DefaultColor = orDefault(p.DefaultColor, defaultColor)
	p.DefaultStrokeColor = orDefault(p.DefaultStrokeColor, defaultStrokeColor)
	p.Theme = orDefault(p.Theme, defaultTheme)
	return p
}

// Authenticated reports whether generation requests carry a credential.
func (p Prefs) Authenticated() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// MemeDefaults returns the text settings applied to new memes.
func (p Prefs) MemeDefaults() meme.Defaults {
	n := p.Normalize()
	return meme.Defaults{
		Font:        n.DefaultFont,
		Color:       n.DefaultColor,
		StrokeColor: n.DefaultStrokeColor,
	}
}

// MaskedKey hides all but the last four characters of the credential.
func (p Prefs) MaskedKey() string {
	key := strings.TrimSpace(p.APIKey)
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
