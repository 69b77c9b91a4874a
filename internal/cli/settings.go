package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/memegen/internal/editor"
	"github.com/five82/memegen/internal/prefs"
	"github.com/five82/memegen/internal/ui"
)

func init() {
	register(newSettingsCmd)
	register(newClearCmd)
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
		Long:  "Show the stored preferences, or change them with flags. An empty --api-key switches to demo mode.",
		Args:  cobra.NoArgs,
		RunE:  runSettings,
	}

	cmd.Flags().String("api-key", "", "API key for image and idea generation")
	cmd.Flags().String("font", "", "Default caption font")
	cmd.Flags().String("color", "", "Default caption color (#rrggbb)")
	cmd.Flags().String("stroke", "", "Default caption stroke color (#rrggbb)")
	cmd.Flags().String("theme", "", "TUI theme ("+strings.Join(ui.ThemeNames(), ", ")+")")

	return cmd
}

// settingsView is the printed form of the preferences. The key is masked.
type settingsView struct {
	APIKey             string `json:"apiKey"`
	Mode               string `json:"mode"`
	DefaultFont        string `json:"defaultFont"`
	DefaultColor       string `json:"defaultColor"`
	DefaultStrokeColor string `json:"defaultStrokeColor"`
	Theme              string `json:"theme"`
}

func viewSettings(p prefs.Prefs) settingsView {
	mode := "demo"
	if p.Authenticated() {
		mode = "api"
	}
	return settingsView{
		APIKey:             p.MaskedKey(),
		Mode:               mode,
		DefaultFont:        p.DefaultFont,
		DefaultColor:       p.DefaultColor,
		DefaultStrokeColor: p.DefaultStrokeColor,
		Theme:              p.Theme,
	}
}

func runSettings(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.Studio.Settings()
	flags := cmd.Flags()
	if flags.Changed("api-key") {
		p.APIKey, _ = flags.GetString("api-key")
	}
	if flags.Changed("font") {
		p.DefaultFont, _ = flags.GetString("font")
	}
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"color", &p.DefaultColor},
		{"stroke", &p.DefaultStrokeColor},
	} {
		if !flags.Changed(f.name) {
			continue
		}
		raw, _ := flags.GetString(f.name)
		color, err := editor.NormalizeColor(raw)
		if err != nil {
			return fmt.Errorf("--%s: %w", f.name, err)
		}
		*f.dst = color
	}
	if flags.Changed("theme") {
		name, _ := flags.GetString("theme")
		i := slices.IndexFunc(ui.ThemeNames(), func(n string) bool { return strings.EqualFold(n, name) })
		if i < 0 {
			return fmt.Errorf("unknown theme %q", name)
		}
		p.Theme = ui.ThemeNames()[i]
	}

	if anyChanged(cmd, "api-key", "font", "color", "stroke", "theme") {
		if p, err = a.Studio.SaveSettings(cmd.Context(), p); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	return writeJSON(cmd.OutOrStdout(), viewSettings(p))
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved meme and reset preferences",
		Args:  cobra.NoArgs,
		RunE:  runClear,
	}
	cmd.Flags().Bool("yes", false, "Confirm deleting all data")
	return cmd
}

func runClear(cmd *cobra.Command, _ []string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return fmt.Errorf("refusing to clear all data without --yes")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Studio.ClearAll(cmd.Context()); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), `{"ok":true}`)
	return err
}
