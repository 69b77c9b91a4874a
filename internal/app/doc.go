// Package app wires configuration, storage, the state store, the image API
// client and the studio service together. It is the composition root shared
// by the CLI subcommands and the TUI.
//
// # Startup
//
//  1. Load ~/.config/memegen/config.toml (defaults when missing)
//  2. Open the SQLite state database, or a memory backend when ephemeral
//  3. Hydrate the state store from the persisted slots
//  4. Build the image API client and the studio service
//  5. For the TUI: open the log file, start the state sync, run ui.Run
//
// # State Sync
//
// The CLI and the TUI can share one database. While the TUI runs, a
// background goroutine calls state.Store.Refresh at a fixed cadence
// (default 2 seconds) so saved memes and preferences written by another
// process show up without a restart. Read failures are logged and the
// interval backs off exponentially up to 30 seconds.
//
// # Logging
//
// The TUI owns the terminal, so Run logs to memegen.log in the data
// directory. CLI callers pass their own logger through Options.
package app
