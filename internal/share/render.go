package share

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/five82/memegen/internal/meme"
)

var (
	defaultFill   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	defaultStroke = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// Render decodes the meme image, draws the caption centered on its position
// and returns the result as PNG.
func Render(m meme.Meme) ([]byte, error) {
	raw, err := m.Image()
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)

	if m.Caption != "" {
		drawCaption(canvas, m.Caption, m.TextSettings)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCaption(dst *image.RGBA, caption string, ts meme.TextSettings) {
	mask := captionMask(caption, ts.SizePixels())
	if mask == nil {
		return
	}
	b := dst.Bounds()
	cx := float64(b.Min.X) + float64(b.Dx())*ts.Position.X/100
	cy := float64(b.Min.Y) + float64(b.Dy())*ts.Position.Y/100
	origin := image.Pt(
		int(math.Round(cx-float64(mask.Bounds().Dx())/2)),
		int(math.Round(cy-float64(mask.Bounds().Dy())/2)),
	)
	rect := mask.Bounds().Add(origin)

	width := strokeWidth(ts.SizePixels())
	stroke := image.NewUniform(parseColor(ts.StrokeColor, defaultStroke))
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			shifted := rect.Add(image.Pt(dx*width, dy*width))
			draw.DrawMask(dst, shifted, stroke, image.Point{}, mask, image.Point{}, draw.Over)
		}
	}
	fill := image.NewUniform(parseColor(ts.Color, defaultFill))
	draw.DrawMask(dst, rect, fill, image.Point{}, mask, image.Point{}, draw.Over)
}

// captionMask rasterizes caption with the bitmap face and scales it so the
// line height matches px.
func captionMask(caption string, px float64) *image.Alpha {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	w := d.MeasureString(caption).Ceil()
	h := face.Height
	if w <= 0 {
		return nil
	}
	small := image.NewAlpha(image.Rect(0, 0, w, h))
	d.Dst = small
	d.Src = image.Opaque
	d.Dot = fixed.P(0, face.Ascent)
	d.DrawString(caption)

	scale := px / float64(h)
	sw := int(math.Max(1, math.Round(float64(w)*scale)))
	sh := int(math.Max(1, math.Round(float64(h)*scale)))
	scaled := image.NewAlpha(image.Rect(0, 0, sw, sh))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), small, small.Bounds(), draw.Src, nil)
	return scaled
}

func strokeWidth(px float64) int {
	return int(math.Max(1, math.Round(px/18)))
}

func parseColor(hex string, fallback color.Color) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 0xff}
}
