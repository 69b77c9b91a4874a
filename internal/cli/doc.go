// Package cli implements the memegen commands.
//
// NewRootCmd builds the command tree. Run without a subcommand it starts
// the TUI; each subcommand opens the application once, performs a single
// action and exits:
//
//	memegen generate <prompt>   create a meme and make it current
//	memegen idea <prompt>       ask for a meme idea
//	memegen list                show saved memes
//	memegen rm <id>             delete a saved meme
//	memegen export <id>         write the composited PNG
//	memegen copy <id>           copy the PNG to the clipboard
//	memegen share <id>          hand the PNG to the share command
//	memegen settings            show or change preferences
//	memegen clear               wipe saved memes and preferences
//	memegen logs                print or follow the log file
//
// Subcommands add themselves with register from an init function.
package cli
