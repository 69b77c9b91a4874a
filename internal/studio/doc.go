// Package studio holds the user-facing meme actions shared by the TUI and
// the commands.
//
// A Service reads and writes through a state.Store. Read-modify-write
// actions such as Save and Delete go through Store.Update so concurrent
// callers never lose each other's changes. Without an API credential
// Generate uses a local placeholder image.
package studio
