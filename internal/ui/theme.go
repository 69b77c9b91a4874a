package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named color palette for the UI chrome. Meme colors come from
// the meme itself and are not themed.
type Theme struct {
	Name string

	Background string // behind the preview canvas
	Surface    string // header, command bar and footer
	Selection  string // selected gallery row

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header       lipgloss.Style
	Footer       lipgloss.Style
	Logo         lipgloss.Style
	Selected     lipgloss.Style
	Label        lipgloss.Style
	FocusedLabel lipgloss.Style
}

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	bar := lipgloss.NewStyle().Background(lipgloss.Color(t.Surface)).Padding(0, 1)
	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header:       bar.Foreground(lipgloss.Color(t.Text)),
		Footer:       bar.Foreground(lipgloss.Color(t.Muted)),
		Logo:         fg(t.Warning).Bold(true),
		Selected:     fg(t.Text).Background(lipgloss.Color(t.Selection)).Bold(true),
		Label:        fg(t.Muted).Width(labelWidth),
		FocusedLabel: fg(t.Accent).Bold(true).Width(labelWidth),
	}
}

// themeOrder is the cycle order for the theme key. The first entry is the
// fallback for unknown names.
var themeOrder = []Theme{
	{
		// https://github.com/EdenEast/nightfox.nvim
		Name:       "Nightfox",
		Background: "#131a24",
		Surface:    "#192330",
		Selection:  "#2b3b51",
		Text:       "#cdcecf",
		Muted:      "#738091",
		Faint:      "#71839b",
		Accent:     "#719cd6",
		Success:    "#81b29a",
		Warning:    "#dbc074",
		Danger:     "#c94f6d",
		Info:       "#63cdcf",
	},
	{
		// https://github.com/rebelot/kanagawa.nvim
		Name:       "Kanagawa",
		Background: "#16161d",
		Surface:    "#1f1f28",
		Selection:  "#2d4f67",
		Text:       "#dcd7ba",
		Muted:      "#c8c093",
		Faint:      "#727169",
		Accent:     "#7e9cd8",
		Success:    "#98bb6c",
		Warning:    "#e6c384",
		Danger:     "#e46876",
		Info:       "#7fb4ca",
	},
	{
		// Tailwind slate and sky
		Name:       "Slate",
		Background: "#020617",
		Surface:    "#0f172a",
		Selection:  "#0284c7",
		Text:       "#f1f5f9",
		Muted:      "#94a3b8",
		Faint:      "#64748b",
		Accent:     "#38bdf8",
		Success:    "#22c55e",
		Warning:    "#f59e0b",
		Danger:     "#ef4444",
		Info:       "#06b6d4",
	},
}

var themes = func() map[string]Theme {
	m := make(map[string]Theme, len(themeOrder))
	for _, t := range themeOrder {
		m[t.Name] = t
	}
	return m
}()

// GetTheme returns a theme by name, or the first theme for unknown names.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themeOrder[0]
}

// NextTheme returns the theme name after current in the cycle.
func NextTheme(current string) string {
	for i, t := range themeOrder {
		if t.Name == current {
			return themeOrder[(i+1)%len(themeOrder)].Name
		}
	}
	return themeOrder[0].Name
}

// ThemeNames returns available theme names in cycle order.
func ThemeNames() []string {
	names := make([]string, len(themeOrder))
	for i, t := range themeOrder {
		names[i] = t.Name
	}
	return names
}
