package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openauthor/embedview/internal/manifest"
	"github.com/openauthor/embedview/internal/presentation"
)

var (
	listScreenKey string
	listKind      string
)

var instancesListCmd = &cobra.Command{
	Use:   "instances:list",
	Short: "List embedded view instances",
	Long: `List the topmost view instances in the application's screens as JSON.

Only topmost instances are reported: an instance nested inside another
instance belongs to the inner template and is not listed separately.

Examples:
  # List instances across all screens
  embedview instances:list

  # Restrict to one screen
  embedview instances:list --screen main

  # Restrict to one template kind
  embedview instances:list --kind navbar`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		var entries []manifest.ScreenEntry
		if listScreenKey != "" {
			entry, ok := app.manifest.ScreenByKey(listScreenKey)
			if !ok {
				return fmt.Errorf("screen %q is not declared in the manifest", listScreenKey)
			}
			entries = append(entries, entry)
		} else {
			for _, entry := range app.manifest.Screens() {
				if entry.Key != manifest.TemplatesKey {
					entries = append(entries, entry)
				}
			}
		}

		instances := make([]presentation.InstanceDTO, 0)
		for _, entry := range entries {
			screen, _, err := app.openScreenByKey(entry.Key)
			if err != nil {
				return err
			}
			found, err := app.engine.FindInstances(cmd.Context(), screen, listKind)
			if err != nil {
				return err
			}
			instances = append(instances, presentation.FromFoundInstances(entry.Name, found)...)
		}

		formatter := presentation.NewFormatter(os.Stdout)
		return formatter.FormatInstances(instances)
	},
}

func init() {
	instancesListCmd.Flags().StringVarP(&listScreenKey, "screen", "s", "", "Restrict to one screen key")
	instancesListCmd.Flags().StringVarP(&listKind, "kind", "k", "", "Restrict to one template kind")
	rootCmd.AddCommand(instancesListCmd)
}
