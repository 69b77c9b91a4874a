// Package config handles loading and parsing the memegen configuration file.
//
// # Overview
//
// The config file holds deployment settings: where the API lives, which
// models to use, where data and downloads go. Preferences the user edits in
// the app (API key, default font and colors, theme) are stored with the saved
// memes by the state package instead.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/memegen/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/memegen/config.toml
//   - API base URL: https://api.openai.com
//   - Image model: gpt-4.1-mini
//   - Idea model: gpt-4o-mini
//   - Database: ~/.local/share/memegen/memegen.db
//   - Downloads: ~/Downloads
//   - Request timeout: 120 seconds
//   - Log file: <dir of db_path>/memegen.log
//
// # TOML Format
//
// Example config.toml:
//
//	api_base_url = "https://api.openai.com"
//	image_model = "gpt-4.1-mini"
//	idea_model = "gpt-4o-mini"
//	db_path = "~/.local/share/memegen/memegen.db"
//	download_dir = "~/Pictures/memes"
//	request_timeout_seconds = 90
//	share_command = "xdg-open"
//
// Every field is optional. share_command, when set, is run with the path of
// a rendered PNG to share it; when empty, sharing saves to download_dir.
//
// # Path Expansion
//
// db_path, download_dir and the config path itself accept a leading tilde
// and relative paths; both are resolved to absolute paths.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead.
package config
