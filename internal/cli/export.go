package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/memegen/internal/share"
)

func init() {
	register(newExportCmd)
	register(newCopyCmd)
	register(newShareCmd)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Render a saved meme to a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().String("dir", "", "Output directory (default: download_dir from config)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.Studio.Find(args[0])
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = a.Config.DownloadDir
	}
	path, err := share.Download(m, dir, time.Now())
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}

func newCopyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a saved meme to the clipboard as a data URI",
		Long:  "Copy a rendered meme to the system clipboard. When no system clipboard is available the data URI is sent to the terminal with OSC 52.",
		Args:  cobra.ExactArgs(1),
		RunE:  runCopy,
	}
}

func runCopy(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.Studio.Find(args[0])
	if err != nil {
		return err
	}
	method, err := share.CopyToClipboard(m, share.NewCopier(os.Stderr))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "copied via %s clipboard\n", method)
	return err
}

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share <id>",
		Short: "Share a saved meme with share_command, or export it when none is set",
		Args:  cobra.ExactArgs(1),
		RunE:  runShare,
	}
	cmd.Flags().String("dir", "", "Fallback output directory (default: download_dir from config)")
	return cmd
}

func runShare(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m, err := a.Studio.Find(args[0])
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = a.Config.DownloadDir
	}
	path, err := share.Share(cmd.Context(), m, a.Sharer(), dir, time.Now())
	if err != nil {
		return err
	}
	if path != "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "sharing unavailable, saved %s\n", path)
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "shared")
	return err
}
