package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/memegen/internal/meme"
)

func init() {
	register(newGenerateCmd)
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a meme image from a prompt",
		Long:  "Generate a meme image. Without an API key a placeholder image is produced. With --idea the prompt is sent to the idea assistant first and its caption is applied.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGenerate,
	}

	cmd.Flags().String("caption", "", "Caption to place over the image")
	cmd.Flags().Bool("save", false, "Save the meme to the gallery")
	cmd.Flags().Bool("idea", false, "Ask for an idea first and generate from its description")
	cmd.Flags().StringP("format", "f", "json", "Output format: json or text")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	caption, _ := cmd.Flags().GetString("caption")
	save, _ := cmd.Flags().GetBool("save")
	fromIdea, _ := cmd.Flags().GetBool("idea")
	format, err := formatFlag(cmd)
	if err != nil {
		return err
	}
	prompt := strings.Join(args, " ")

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var m meme.Meme
	if fromIdea {
		m, _, err = a.Studio.GenerateFromIdea(ctx, prompt)
	} else {
		m, err = a.Studio.Generate(ctx, prompt)
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("caption") {
		m.Caption = strings.TrimSpace(caption)
	}
	if save {
		if m, err = a.Studio.Save(ctx, m); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}

	if format == "text" {
		state := "not saved"
		if save {
			state = "saved"
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t(%s)\n", m.ID, m.Title(), state)
		return err
	}
	return writeJSON(cmd.OutOrStdout(), summarize(m, save))
}
