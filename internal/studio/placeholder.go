package studio

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	placeholderSize  = 300
	placeholderLabel = "DEMO MODE"
)

var placeholderOnce = sync.OnceValues(renderPlaceholder)

// Placeholder returns the base64 PNG used when no API key is configured.
func Placeholder() (string, error) {
	return placeholderOnce()
}

func renderPlaceholder() (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0xdd, 0xdd, 0xdd, 0xff}), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{0x66, 0x66, 0x66, 0xff}), Face: face}
	width := d.MeasureString(placeholderLabel).Round()
	d.Dot = fixed.P((placeholderSize-width)/2, placeholderSize/2+face.Ascent/2)
	d.DrawString(placeholderLabel)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
