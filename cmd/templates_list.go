package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/openauthor/embedview/internal/presentation"
)

var templatesListCmd = &cobra.Command{
	Use:   "templates:list",
	Short: "List the application's registered view templates",
	Long: `List every embeddable-view template the application declares as JSON.

Examples:
  # List all templates
  embedview templates:list

  # Parse specific fields with jq
  embedview templates:list | jq '.[].kind'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		formatter := presentation.NewFormatter(os.Stdout)
		return formatter.FormatTemplates(presentation.FromManifestTemplates(app.manifest.Templates()))
	},
}

func init() {
	rootCmd.AddCommand(templatesListCmd)
}
