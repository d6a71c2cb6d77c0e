package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openauthor/embedview/internal/host"
	"github.com/openauthor/embedview/internal/presentation"
)

var syncScreenKey string

var instanceSyncCmd = &cobra.Command{
	Use:   "instance:sync <kind>",
	Short: "Refresh a kind's instances on one screen",
	Args:  cobra.ExactArgs(1),
	Long: `Refresh every topmost instance of a template on a single screen,
without cascading into other screens or templates. Use "update" for a
full cascade.

Examples:
  embedview instance:sync navbar --screen main`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		screen, entry, err := app.openScreenByKey(syncScreenKey)
		if err != nil {
			return err
		}

		found, err := app.engine.FindInstances(cmd.Context(), screen, kind)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return fmt.Errorf("screen %q has no %q instances", entry.Key, kind)
		}
		for _, inst := range found {
			if err := app.engine.Sync(cmd.Context(), kind, inst.Container); err != nil {
				return err
			}
		}
		if _, err := app.saveScreens([]host.ScreenID{screen}); err != nil {
			return err
		}

		formatter := presentation.NewFormatter(os.Stdout)
		return formatter.FormatInstances(presentation.FromFoundInstances(entry.Name, found))
	},
}

func init() {
	instanceSyncCmd.Flags().StringVarP(&syncScreenKey, "screen", "s", "", "Screen key to refresh (required)")
	_ = instanceSyncCmd.MarkFlagRequired("screen")
	rootCmd.AddCommand(instanceSyncCmd)
}
