package share

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/memegen/internal/meme"
)

func solidPNG(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testMeme(t *testing.T, caption string) meme.Meme {
	t.Helper()
	gray := color.RGBA{0x80, 0x80, 0x80, 0xff}
	m := meme.New("p", solidPNG(t, 200, 100, gray), meme.Defaults{Font: "Impact", Color: "#ff0000", StrokeColor: "#0000ff"}, time.Unix(0, 0))
	m.Caption = caption
	return m
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img
}

func countColor(img image.Image, want color.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, a := img.At(x, y).RGBA()
			if uint8(r>>8) == want.R && uint8(g>>8) == want.G && uint8(bb>>8) == want.B && uint8(a>>8) == want.A {
				n++
			}
		}
	}
	return n
}

func TestRender_DrawsCaptionWithStroke(t *testing.T) {
	data, err := Render(testMeme(t, "HELLO"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := decode(t, data)
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Fatalf("size = %v", img.Bounds())
	}
	if countColor(img, color.RGBA{0xff, 0, 0, 0xff}) == 0 {
		t.Fatalf("no fill pixels drawn")
	}
	if countColor(img, color.RGBA{0, 0, 0xff, 0xff}) == 0 {
		t.Fatalf("no stroke pixels drawn")
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 0x80 || g>>8 != 0x80 || b>>8 != 0x80 {
		t.Fatalf("corner pixel changed")
	}
}

func TestRender_NoCaptionKeepsImage(t *testing.T) {
	data, err := Render(testMeme(t, ""))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := decode(t, data)
	if got := countColor(img, color.RGBA{0x80, 0x80, 0x80, 0xff}); got != 200*100 {
		t.Fatalf("gray pixels = %d, want all", got)
	}
}

func TestRender_PositionMovesCaption(t *testing.T) {
	m := testMeme(t, "X")
	m.TextSettings.Size = "13px"
	m.TextSettings.Position = meme.Position{X: 10, Y: 50}
	data, err := Render(m)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img := decode(t, data)
	fill := color.RGBA{0xff, 0, 0, 0xff}
	right := image.Rect(100, 0, 200, 100)
	for y := right.Min.Y; y < right.Max.Y; y++ {
		for x := right.Min.X; x < right.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			if uint8(r>>8) == fill.R {
				t.Fatalf("fill pixel at %d,%d on the right half", x, y)
			}
		}
	}
	if countColor(img, fill) == 0 {
		t.Fatalf("caption not drawn")
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render(meme.Meme{}); !errors.Is(err, ErrNoImage) {
		t.Fatalf("Render(empty) = %v, want ErrNoImage", err)
	}
	if _, err := Render(meme.Meme{ImageData: base64.StdEncoding.EncodeToString([]byte("not an image"))}); err == nil {
		t.Fatalf("Render(garbage) returned nil error")
	}
}

func TestDownload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	now := time.UnixMilli(1717243200123)

	path, err := Download(testMeme(t, "hi"), dir, now)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "meme-1717243200123.png" {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	decode(t, data)
}

func TestNoImageFailsBeforeSideEffects(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "never")
	empty := meme.Meme{Caption: "x"}

	if _, err := Download(empty, dir, time.Now()); !errors.Is(err, ErrNoImage) {
		t.Fatalf("Download = %v", err)
	}
	if _, err := Share(context.Background(), empty, nil, dir, time.Now()); !errors.Is(err, ErrNoImage) {
		t.Fatalf("Share = %v", err)
	}
	copied := false
	var term bytes.Buffer
	c := Copier{WriteAll: func(string) error { copied = true; return nil }, Terminal: &term}
	if _, err := CopyToClipboard(empty, c); !errors.Is(err, ErrNoImage) {
		t.Fatalf("CopyToClipboard = %v", err)
	}
	if copied || term.Len() != 0 {
		t.Fatalf("clipboard touched for empty meme")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("download dir created: %v", err)
	}
}

func TestCopyToClipboard(t *testing.T) {
	m := testMeme(t, "hi")

	t.Run("system", func(t *testing.T) {
		var got string
		c := Copier{WriteAll: func(s string) error { got = s; return nil }}
		method, err := CopyToClipboard(m, c)
		if err != nil || method != MethodSystem {
			t.Fatalf("CopyToClipboard = %q, %v", method, err)
		}
		if !strings.HasPrefix(got, "data:image/png;base64,") {
			t.Fatalf("clipboard = %.40q", got)
		}
	})

	t.Run("terminal fallback", func(t *testing.T) {
		var term bytes.Buffer
		c := Copier{WriteAll: func(string) error { return errors.New("no xclip") }, Terminal: &term}
		method, err := CopyToClipboard(m, c)
		if err != nil || method != MethodTerminal {
			t.Fatalf("CopyToClipboard = %q, %v", method, err)
		}
		if !strings.HasPrefix(term.String(), "\x1b]52;c;") {
			t.Fatalf("terminal output = %.20q", term.String())
		}
	})

	t.Run("nothing available", func(t *testing.T) {
		if _, err := CopyToClipboard(m, Copier{}); err == nil {
			t.Fatalf("CopyToClipboard with no clipboard returned nil error")
		}
	})
}

type fakeSharer struct {
	err   error
	title string
	data  []byte
}

func (f *fakeSharer) Share(_ context.Context, title, _ string, png []byte) error {
	f.title = title
	f.data = png
	return f.err
}

func TestShare(t *testing.T) {
	ctx := context.Background()
	now := time.UnixMilli(42)

	t.Run("native", func(t *testing.T) {
		dir := t.TempDir()
		s := &fakeSharer{}
		path, err := Share(ctx, testMeme(t, ""), s, dir, now)
		if err != nil || path != "" {
			t.Fatalf("Share = %q, %v", path, err)
		}
		if s.title != defaultShareTitle || len(s.data) == 0 {
			t.Fatalf("sharer got title %q and %d bytes", s.title, len(s.data))
		}
	})

	t.Run("unsupported falls back to download", func(t *testing.T) {
		dir := t.TempDir()
		path, err := Share(ctx, testMeme(t, "cap"), &fakeSharer{err: ErrShareUnsupported}, dir, now)
		if err != nil {
			t.Fatalf("Share: %v", err)
		}
		if path != filepath.Join(dir, "meme-42.png") {
			t.Fatalf("path = %q", path)
		}
	})

	t.Run("empty command sharer is unsupported", func(t *testing.T) {
		dir := t.TempDir()
		path, err := Share(ctx, testMeme(t, "cap"), CommandSharer{}, dir, now)
		if err != nil || path == "" {
			t.Fatalf("Share = %q, %v", path, err)
		}
	})

	t.Run("other errors surface", func(t *testing.T) {
		dir := t.TempDir()
		_, err := Share(ctx, testMeme(t, "cap"), &fakeSharer{err: errors.New("denied")}, dir, now)
		if err == nil || !strings.Contains(err.Error(), "denied") {
			t.Fatalf("Share = %v", err)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Fatalf("download written on share failure")
		}
	})
}

func TestCommandSharer_RemovesTempFile(t *testing.T) {
	if _, err := exec.LookPath("test"); err != nil {
		t.Skip("test command not available")
	}
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	// test -s fails unless the PNG exists and is non-empty while the command runs.
	s := CommandSharer{Command: "test -s"}
	if err := s.Share(context.Background(), "title", "text", []byte("png bytes")); err != nil {
		t.Fatalf("Share: %v", err)
	}
	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}
