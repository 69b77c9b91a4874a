package share

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/five82/memegen/internal/meme"
)

var (
	// ErrNoImage is returned for memes without an image payload.
	ErrNoImage = meme.ErrNoImage
	// ErrShareUnsupported is returned by a Sharer that cannot share.
	ErrShareUnsupported = errors.New("native sharing not supported")
)

const (
	defaultShareTitle = "My Awesome Meme"
	shareText         = "Check out this meme I created!"
)

// FileName returns the download name for a meme rendered at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("meme-%d.png", now.UnixMilli())
}

// Download renders m into dir and returns the written path.
func Download(m meme.Meme, dir string, now time.Time) (string, error) {
	if !m.HasImage() {
		return "", ErrNoImage
	}
	data, err := Render(m)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// DataURI returns the rendered meme as a data:image/png URI.
func DataURI(m meme.Meme) (string, error) {
	if !m.HasImage() {
		return "", ErrNoImage
	}
	data, err := Render(m)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Method reports how a copy reached the clipboard.
type Method string

const (
	MethodSystem   Method = "system"
	MethodTerminal Method = "terminal"
)

// Copier writes text to the system clipboard, or to the terminal as an
// OSC 52 sequence when there is none.
type Copier struct {
	// WriteAll is nil when no system clipboard is available.
	WriteAll func(string) error
	Terminal io.Writer
	Tmux     bool
}

// NewCopier returns a Copier for the current environment.
func NewCopier(term io.Writer) Copier {
	c := Copier{Terminal: term, Tmux: os.Getenv("TMUX") != ""}
	if !clipboard.Unsupported {
		c.WriteAll = clipboard.WriteAll
	}
	return c
}

// CopyToClipboard copies the rendered meme as a data URI.
func CopyToClipboard(m meme.Meme, c Copier) (Method, error) {
	uri, err := DataURI(m)
	if err != nil {
		return "", err
	}
	var sysErr error
	if c.WriteAll != nil {
		if sysErr = c.WriteAll(uri); sysErr == nil {
			return MethodSystem, nil
		}
	}
	if c.Terminal == nil {
		if sysErr != nil {
			return "", fmt.Errorf("copy to clipboard: %w", sysErr)
		}
		return "", fmt.Errorf("copy to clipboard: no clipboard available")
	}
	seq := osc52.New(uri)
	if c.Tmux {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(c.Terminal); err != nil {
		return "", fmt.Errorf("write osc52: %w", err)
	}
	return MethodTerminal, nil
}

// Sharer hands a rendered meme to a native share facility.
type Sharer interface {
	Share(ctx context.Context, title, text string, png []byte) error
}

// CommandSharer shares by running Command with the path of a temporary PNG.
// The file is removed once the command exits. An empty Command reports
// ErrShareUnsupported.
type CommandSharer struct {
	Command string
}

func (s CommandSharer) Share(ctx context.Context, title, text string, png []byte) error {
	fields := strings.Fields(s.Command)
	if len(fields) == 0 {
		return ErrShareUnsupported
	}
	f, err := os.CreateTemp("", "meme-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	// The command runs to completion before Share returns.
	defer os.Remove(path)
	if _, err := f.Write(png); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Env = append(os.Environ(), "MEMEGEN_SHARE_TITLE="+title, "MEMEGEN_SHARE_TEXT="+text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("share command: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Share sends m through sharer. When sharing is unsupported the meme is
// downloaded into dir instead and the path is returned.
func Share(ctx context.Context, m meme.Meme, sharer Sharer, dir string, now time.Time) (string, error) {
	if !m.HasImage() {
		return "", ErrNoImage
	}
	if sharer == nil {
		return Download(m, dir, now)
	}
	data, err := Render(m)
	if err != nil {
		return "", err
	}
	title := strings.TrimSpace(m.Caption)
	if title == "" {
		title = defaultShareTitle
	}
	err = sharer.Share(ctx, title, shareText, data)
	if errors.Is(err, ErrShareUnsupported) {
		return Download(m, dir, now)
	}
	if err != nil {
		return "", fmt.Errorf("share: %w", err)
	}
	return "", nil
}
