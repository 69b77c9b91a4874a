package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/five82/memegen/internal/app"
)

var subcommands []func() *cobra.Command

// register adds a subcommand constructor to every root built by NewRootCmd.
func register(newCmd func() *cobra.Command) {
	subcommands = append(subcommands, newCmd)
}

// NewRootCmd builds the memegen command tree. Without a subcommand it runs
// the TUI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "memegen",
		Short:         "Generate, caption and share memes from the terminal",
		Long:          "memegen generates meme images from a prompt, lets you place a caption over them and keeps a gallery of saved memes. Run without arguments for the interactive UI.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runTUI,
	}

	root.PersistentFlags().StringP("config", "c", "", "Config path (default: ~/.config/memegen/config.toml)")
	root.PersistentFlags().StringP("db", "d", "", "Database path (default: db_path from config)")
	root.PersistentFlags().Bool("ephemeral", false, "Keep state in memory only")

	for _, newCmd := range subcommands {
		root.AddCommand(newCmd())
	}
	return root
}

func appOptions(cmd *cobra.Command) app.Options {
	configPath, _ := cmd.Flags().GetString("config")
	dbPath, _ := cmd.Flags().GetString("db")
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")
	return app.Options{
		ConfigPath: configPath,
		DBPath:     dbPath,
		Ephemeral:  ephemeral,
	}
}

func runTUI(cmd *cobra.Command, _ []string) error {
	return app.Run(cmd.Context(), appOptions(cmd))
}

// openApp opens the application for a one-shot command. Diagnostics go to
// the command's stderr.
func openApp(cmd *cobra.Command) (*app.App, error) {
	opts := appOptions(cmd)
	opts.Logger = log.New(cmd.ErrOrStderr(), "memegen: ", 0)
	return app.Open(cmd.Context(), opts)
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func formatFlag(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json", "text":
		return format, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or text)", format)
	}
}
