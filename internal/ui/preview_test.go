package ui

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/memegen/internal/meme"
)

func encodePNG(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFitCells(t *testing.T) {
	cases := []struct {
		name         string
		iw, ih       int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"square_in_wide_area", 300, 300, 78, 36, 72, 36},
		{"wide_image", 100, 50, 10, 10, 10, 3},
		{"exact", 4, 8, 4, 4, 4, 4},
		{"empty_image", 0, 10, 10, 10, 0, 0},
		{"empty_area", 10, 10, 0, 10, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := fitCells(tc.iw, tc.ih, tc.maxW, tc.maxH)
			if w != tc.wantW || h != tc.wantH {
				t.Fatalf("fitCells = %dx%d, want %dx%d", w, h, tc.wantW, tc.wantH)
			}
		})
	}
}

func TestNewCanvasPairsRows(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 2; x++ {
			c := color.RGBA{R: 255, A: 255}
			if y%2 == 1 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.SetRGBA(x, y, c)
		}
	}

	c := newCanvas(img, 2, 2)
	if c.W != 2 || c.H != 2 {
		t.Fatalf("canvas = %dx%d, want 2x2", c.W, c.H)
	}
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			px := c.at(x, y)
			if px.Top.R < 200 || px.Top.B > 50 {
				t.Fatalf("cell (%d,%d) top = %v, want red", x, y, px.Top)
			}
			if px.Bottom.B < 200 || px.Bottom.R > 50 {
				t.Fatalf("cell (%d,%d) bottom = %v, want blue", x, y, px.Bottom)
			}
		}
	}
}

func TestNewCanvasEmptyArea(t *testing.T) {
	c := newCanvas(solidImage(4, 4, color.RGBA{A: 255}), 0, 0)
	if c.W != 0 || c.H != 0 || c.render(nil) != "" {
		t.Fatalf("expected empty canvas, got %dx%d", c.W, c.H)
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.RGBA{R: 255, G: 128, A: 255}); got != "#ff8000" {
		t.Fatalf("hexColor = %q, want #ff8000", got)
	}
	if got := hexColor(color.RGBA{}); got != "#000000" {
		t.Fatalf("hexColor(transparent) = %q, want #000000", got)
	}
}

func TestCanvasRenderOverlay(t *testing.T) {
	c := newCanvas(solidImage(3, 2, color.RGBA{G: 255, A: 255}), 3, 1)
	if c.W != 3 || c.H != 1 {
		t.Fatalf("canvas = %dx%d, want 3x1", c.W, c.H)
	}

	if got := c.render(nil); strings.Count(got, halfBlock) != 3 {
		t.Fatalf("plain render = %q, want 3 half blocks", got)
	}

	full := overlay{X: 0, Y: 0, Text: "abc", Color: "#ffffff", Stroke: "#000000"}
	got := c.render(&full)
	if strings.Contains(got, halfBlock) {
		t.Fatalf("covered render = %q, want no half blocks", got)
	}
	for _, r := range []string{"a", "b", "c"} {
		if !strings.Contains(got, r) {
			t.Fatalf("covered render = %q, missing %q", got, r)
		}
	}

	clipped := overlay{X: -1, Y: 0, Text: "abc"}
	got = c.render(&clipped)
	if strings.Contains(got, "a") || !strings.Contains(got, "b") || strings.Count(got, halfBlock) != 1 {
		t.Fatalf("clipped render = %q", got)
	}

	below := overlay{X: 0, Y: 5, Text: "abc"}
	if got := c.render(&below); strings.Count(got, halfBlock) != 3 {
		t.Fatalf("off-canvas overlay render = %q", got)
	}
}

func TestCanvasRenderWideCaption(t *testing.T) {
	c := newCanvas(solidImage(8, 2, color.RGBA{B: 255, A: 255}), 8, 1)

	tests := []struct {
		name       string
		ov         overlay
		halfBlocks int
	}{
		{"inside", overlay{X: 1, Text: "日本a"}, 3},
		{"emoji", overlay{X: 0, Text: "🙂x"}, 5},
		{"clipped left", overlay{X: -1, Text: "日本"}, 5},
		{"clipped right", overlay{X: 7, Text: "日"}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.render(&tt.ov)
			if w := lipgloss.Width(got); w != c.W {
				t.Fatalf("render width = %d, want %d: %q", w, c.W, got)
			}
			if n := strings.Count(got, halfBlock); n != tt.halfBlocks {
				t.Fatalf("half blocks = %d, want %d: %q", n, tt.halfBlocks, got)
			}
		})
	}

	// The drag hit box is sized by captionWidth; it must match the cells
	// the overlay covers.
	for _, text := range []string{"日本a", "🙂x", "abc"} {
		ov := overlay{Text: text}
		want := c.W - strings.Count(c.render(&ov), halfBlock)
		if got := captionWidth(text); got != want {
			t.Fatalf("captionWidth(%q) = %d, want %d", text, got, want)
		}
	}
}

func TestOverlayAt(t *testing.T) {
	ts := meme.TextSettings{Color: "#ffffff", StrokeColor: "#000000"}
	ov := overlayAt(35, 17.5, "", ts)
	if ov.X != 35 || ov.Y != 18 {
		t.Fatalf("overlay at (%d,%d), want (35,18)", ov.X, ov.Y)
	}
	if ov.Text != captionText("") || ov.Color != "#ffffff" || ov.Stroke != "#000000" {
		t.Fatalf("overlay = %+v", ov)
	}
	if captionText("  ") == "" || captionText("hi") != "hi" {
		t.Fatal("captionText should keep real captions and replace blank ones")
	}
}

func TestPreviewCache(t *testing.T) {
	m := meme.Meme{ID: "a", ImageData: encodePNG(t, solidImage(4, 4, color.RGBA{R: 9, A: 255}))}
	var cache previewCache

	first, err := cache.image(m)
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	second, err := cache.image(m)
	if err != nil || first != second {
		t.Fatalf("expected cached image, err=%v", err)
	}

	m.ID = "b"
	m.ImageData = encodePNG(t, solidImage(6, 2, color.RGBA{A: 255}))
	third, err := cache.image(m)
	if err != nil {
		t.Fatalf("image: %v", err)
	}
	if third.Bounds().Dx() != 6 {
		t.Fatalf("cache not refreshed: bounds %v", third.Bounds())
	}

	if _, err := cache.image(meme.Meme{ID: "bad", ImageData: "bm90IGFuIGltYWdl"}); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := cache.image(meme.Meme{ID: "empty"}); err == nil {
		t.Fatal("expected error for meme without image")
	}
}
