package ui

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/five82/memegen/internal/meme"
)

const halfBlock = "▀"

// cell is one terminal cell showing two vertically stacked pixels.
type cell struct {
	Top, Bottom color.RGBA
}

// canvas is an image downsampled to terminal cells.
type canvas struct {
	W, H  int
	cells []cell
}

func (c canvas) at(x, y int) cell {
	return c.cells[y*c.W+x]
}

// fitCells returns the largest cell size for an iw x ih image inside
// maxW x maxH cells, keeping the aspect ratio with two pixels per cell row.
func fitCells(iw, ih, maxW, maxH int) (int, int) {
	if iw <= 0 || ih <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(iw), float64(2*maxH)/float64(ih))
	w := int(math.Max(1, math.Round(float64(iw)*scale)))
	h := int(math.Max(1, math.Round(float64(ih)*scale/2)))
	if w > maxW {
		w = maxW
	}
	if h > maxH {
		h = maxH
	}
	return w, h
}

// newCanvas scales img to fit maxW x maxH cells.
func newCanvas(img image.Image, maxW, maxH int) canvas {
	b := img.Bounds()
	w, h := fitCells(b.Dx(), b.Dy(), maxW, maxH)
	if w == 0 || h == 0 {
		return canvas{}
	}
	px := image.NewRGBA(image.Rect(0, 0, w, h*2))
	draw.ApproxBiLinear.Scale(px, px.Bounds(), img, b, draw.Src, nil)

	c := canvas{W: w, H: h, cells: make([]cell, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.cells[y*w+x] = cell{
				Top:    px.RGBAAt(x, 2*y),
				Bottom: px.RGBAAt(x, 2*y+1),
			}
		}
	}
	return c
}

func decodePreview(m meme.Meme) (image.Image, error) {
	raw, err := m.Image()
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// overlay is the caption drawn over the canvas, in cell coordinates.
type overlay struct {
	X, Y   int
	Text   string
	Color  string
	Stroke string
}

// captionText is what the overlay shows; an empty caption still gets a
// handle so it can be dragged.
func captionText(caption string) string {
	if strings.TrimSpace(caption) == "" {
		return "‹caption›"
	}
	return caption
}

// overlayAt places the caption box at a fractional offset.
func overlayAt(offsetX, offsetY float64, caption string, ts meme.TextSettings) overlay {
	return overlay{
		X:      int(math.Round(offsetX)),
		Y:      int(math.Round(offsetY)),
		Text:   captionText(caption),
		Color:  ts.Color,
		Stroke: ts.StrokeColor,
	}
}

// overlayCell is one terminal cell of the caption. A wide rune fills its
// first cell and leaves the next one with zero width.
type overlayCell struct {
	text  string
	width int
}

func overlayCells(text string) []overlayCell {
	var cells []overlayCell
	last := -1
	for _, r := range text {
		if unicode.IsControl(r) {
			continue
		}
		w := lipgloss.Width(string(r))
		if w == 0 {
			// Combining marks ride on the previous rune.
			if last >= 0 {
				cells[last].text += string(r)
			}
			continue
		}
		last = len(cells)
		cells = append(cells, overlayCell{text: string(r), width: w})
		for i := 1; i < w; i++ {
			cells = append(cells, overlayCell{})
		}
	}
	return cells
}

// captionWidth is the number of cells render uses for text.
func captionWidth(text string) int {
	return len(overlayCells(text))
}

// render draws the canvas as half blocks with an optional caption overlay.
func (c canvas) render(ov *overlay) string {
	var b strings.Builder
	var cells []overlayCell
	if ov != nil {
		cells = overlayCells(ov.Text)
	}
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			if ov != nil && y == ov.Y && x >= ov.X && x < ov.X+len(cells) {
				oc := cells[x-ov.X]
				text := oc.text
				switch {
				case oc.width == 0 && x > 0:
					// Already covered by the wide rune to the left.
					continue
				case oc.width == 0, x+oc.width > c.W:
					text = " "
				}
				style := lipgloss.NewStyle().
					Foreground(lipgloss.Color(ov.Color)).
					Background(lipgloss.Color(ov.Stroke)).
					Bold(true)
				b.WriteString(style.Render(text))
				continue
			}
			px := c.at(x, y)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(px.Top))).
				Background(lipgloss.Color(hexColor(px.Bottom)))
			b.WriteString(style.Render(halfBlock))
		}
		if y < c.H-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func hexColor(c color.RGBA) string {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cc.Hex()
}

// previewCache keeps the decoded image of the meme on screen.
type previewCache struct {
	key string
	img image.Image
	err error
}

func cacheKey(m meme.Meme) string {
	return fmt.Sprintf("%s:%d", m.ID, len(m.ImageData))
}

func (p *previewCache) image(m meme.Meme) (image.Image, error) {
	key := cacheKey(m)
	if p.key != key {
		p.key = key
		p.img, p.err = decodePreview(m)
	}
	return p.img, p.err
}
