package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/memegen/internal/studio"
)

func init() {
	register(newRmCmd)
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a saved meme",
		Args:  cobra.ExactArgs(1),
		RunE:  runRm,
	}
}

func runRm(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id := args[0]
	removed, err := a.Studio.Delete(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: %s", studio.ErrNotFound, id)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q}`+"\n", id)
	return err
}
