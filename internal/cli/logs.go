package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/memegen/internal/app"
	"github.com/five82/memegen/internal/logtail"
)

func init() {
	register(newLogsCmd)
}

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the end of the TUI log",
		Args:  cobra.NoArgs,
		RunE:  runLogs,
	}
	cmd.Flags().IntP("lines", "n", 50, "Number of lines (0 for all)")
	cmd.Flags().String("grep", "", "Only show lines containing this text")
	return cmd
}

func runLogs(cmd *cobra.Command, _ []string) error {
	path, err := app.LogPath(appOptions(cmd))
	if err != nil {
		return err
	}
	n, _ := cmd.Flags().GetInt("lines")
	match, _ := cmd.Flags().GetString("grep")

	lines, err := logtail.Tail(path, n, match)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
