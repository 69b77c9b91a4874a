package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the runtime settings memegen reads from its config file.
// User-editable preferences (API key, default text style) live in the state
// store, not here.
type Config struct {
	APIBaseURL     string
	ImageModel     string
	IdeaModel      string
	DBPath         string
	DownloadDir    string
	RequestTimeout time.Duration
	ShareCommand   string
}

const (
	defaultConfigPath     = "~/.config/memegen/config.toml"
	defaultAPIBaseURL     = "https://api.openai.com"
	defaultImageModel     = "gpt-4.1-mini"
	defaultIdeaModel      = "gpt-4o-mini"
	defaultDBPath         = "~/.local/share/memegen/memegen.db"
	defaultDownloadDir    = "~/Downloads"
	defaultTimeoutSeconds = 120
	logFileName           = "memegen.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		ImageModel:     defaultImageModel,
		IdeaModel:      defaultIdeaModel,
		DBPath:         mustExpand(defaultDBPath),
		DownloadDir:    mustExpand(defaultDownloadDir),
		RequestTimeout: defaultTimeoutSeconds * time.Second,
	}
}

// Load locates and parses the memegen config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL     string `toml:"api_base_url"`
		ImageModel     string `toml:"image_model"`
		IdeaModel      string `toml:"idea_model"`
		DBPath         string `toml:"db_path"`
		DownloadDir    string `toml:"download_dir"`
		TimeoutSeconds int    `toml:"request_timeout_seconds"`
		ShareCommand   string `toml:"share_command"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Config{
		APIBaseURL:   orDefault(raw.APIBaseURL, defaultAPIBaseURL),
		ImageModel:   orDefault(raw.ImageModel, defaultImageModel),
		IdeaModel:    orDefault(raw.IdeaModel, defaultIdeaModel),
		DBPath:       mustExpand(orDefault(raw.DBPath, defaultDBPath)),
		DownloadDir:  mustExpand(orDefault(raw.DownloadDir, defaultDownloadDir)),
		ShareCommand: strings.TrimSpace(raw.ShareCommand),
	}
	cfg.RequestTimeout = time.Duration(raw.TimeoutSeconds) * time.Second
	if raw.TimeoutSeconds <= 0 {
		cfg.RequestTimeout = defaultTimeoutSeconds * time.Second
	}
	return cfg, nil
}

// DataDir returns the directory holding the database and log file.
func (c Config) DataDir() string {
	if strings.TrimSpace(c.DBPath) == "" {
		return filepath.Dir(mustExpand(defaultDBPath))
	}
	return filepath.Dir(c.DBPath)
}

// LogPath returns the file the TUI logs to.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir(), logFileName)
}

// ExpandPath resolves a leading tilde and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
