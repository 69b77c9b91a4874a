package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	register(newIdeaCmd)
}

func newIdeaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "idea <prompt>",
		Short: "Ask the assistant for a meme idea",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runIdea,
	}
	cmd.Flags().StringP("format", "f", "json", "Output format: json or text")
	return cmd
}

func runIdea(cmd *cobra.Command, args []string) error {
	format, err := formatFlag(cmd)
	if err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	idea, err := a.Studio.Idea(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	if format == "text" {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Topic:   %s\n", idea.Topic)
		fmt.Fprintf(out, "Caption: %s\n", idea.Caption)
		fmt.Fprintf(out, "Image:   %s\n", idea.ImageDescription)
		if idea.ViralPotentialScore != nil {
			fmt.Fprintf(out, "Score:   %d/10\n", *idea.ViralPotentialScore)
		}
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), idea)
}
