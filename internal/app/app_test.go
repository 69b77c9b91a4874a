package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/memegen/internal/share"
	"github.com/five82/memegen/internal/state"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := filepath.Join(dir, "data", "memegen.db")
	cfgPath := writeConfig(t, dir, "share_command = \"true\"\n")

	a, err := Open(ctx, Options{ConfigPath: cfgPath, DBPath: db})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if a.Config.DBPath != db {
		t.Fatalf("DBPath = %q, want %q", a.Config.DBPath, db)
	}
	if _, err := a.Studio.Generate(ctx, "a dog in a hat"); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	current, ok := a.Store.CurrentMeme()
	if !ok {
		t.Fatal("no current meme after Generate")
	}
	if _, err := a.Studio.Save(ctx, current); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := Open(ctx, Options{ConfigPath: cfgPath, DBPath: db})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if got := len(b.Store.SavedMemes()); got != 1 {
		t.Fatalf("saved memes after reopen = %d, want 1", got)
	}
	if got := b.Store.CurrentView(); got != state.ViewHome {
		t.Fatalf("CurrentView = %q, want home", got)
	}
	sharer, ok := b.Sharer().(share.CommandSharer)
	if !ok || sharer.Command != "true" {
		t.Fatalf("Sharer = %#v", b.Sharer())
	}
}

func TestOpen_Ephemeral(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := filepath.Join(dir, "memegen.db")
	cfgPath := writeConfig(t, dir, "")

	a, err := Open(ctx, Options{ConfigPath: cfgPath, DBPath: db, Ephemeral: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer a.Close()
	if _, err := os.Stat(db); !os.IsNotExist(err) {
		t.Fatalf("ephemeral Open created %s (err=%v)", db, err)
	}
}

func TestOpen_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "api_base_url = [")
	if _, err := Open(context.Background(), Options{ConfigPath: cfgPath, Ephemeral: true}); err == nil {
		t.Fatal("Open accepted an unparsable config")
	}
}
