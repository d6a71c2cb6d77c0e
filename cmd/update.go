package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/openauthor/embedview/internal/presentation"
)

var updateCmd = &cobra.Command{
	Use:   "update <kind>",
	Short: "Cascade a template's changes into every instance",
	Args:  cobra.ExactArgs(1),
	Long: `Refresh every instance of a template across the application: first in
every declared screen, then inside other templates that embed it, recursing
through template-in-template nesting.

With auto-save on (the default), every mutated screen is written back to its
backing file afterward. Use --no-auto-save to leave screens in memory.

Examples:
  # Propagate the navbar template's current content
  embedview update navbar`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		set, err := app.engine.CascadeUpdate(cmd.Context(), kind)
		if err != nil {
			return err
		}

		saved, err := app.saveScreens(set.IDs())
		if err != nil {
			return err
		}

		result := presentation.CascadeResultDTO{
			Kind:    kind,
			Screens: make([]string, 0, set.Len()),
			Saved:   saved == set.Len() && cfg.AutoSave,
		}
		for _, id := range set.IDs() {
			name, err := app.host.ScreenName(id)
			if err != nil {
				return err
			}
			result.Screens = append(result.Screens, name)
		}

		formatter := presentation.NewFormatter(os.Stdout)
		return formatter.FormatCascadeResult(result)
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
