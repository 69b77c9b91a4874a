package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	register(newListCmd)
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved memes, newest first",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	cmd.Flags().StringP("format", "f", "json", "Output format: json or text")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	format, err := formatFlag(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	memes := a.Studio.Gallery()
	if limit > 0 && len(memes) > limit {
		memes = memes[:limit]
	}

	if format == "text" {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, m := range memes {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.CreatedAt.Local().Format(time.DateTime), m.Title())
		}
		return tw.Flush()
	}

	out := make([]memeSummary, 0, len(memes))
	for _, m := range memes {
		out = append(out, summarize(m, true))
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
