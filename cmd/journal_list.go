package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openauthor/embedview/internal/infrastructure/sqlite"
	"github.com/openauthor/embedview/internal/journal"
	"github.com/openauthor/embedview/internal/presentation"
)

var (
	journalKind  string
	journalLimit int
)

var journalListCmd = &cobra.Command{
	Use:   "journal:list",
	Short: "List recorded cascade runs",
	Long: `List the cascade journal as JSON, newest first.

Examples:
  # The last 20 cascades
  embedview journal:list

  # Everything recorded for one template
  embedview journal:list --kind navbar --limit 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Journal.Enabled {
			return fmt.Errorf("the journal is disabled in configuration")
		}
		db, err := sqlite.NewDB(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("opening journal database: %w", err)
		}
		defer db.Close()
		repo := sqlite.NewJournalRepository(db)

		var entries []journal.Entry
		if journalKind != "" {
			entries, err = repo.ListByKind(cmd.Context(), journalKind, journalLimit)
		} else {
			entries, err = repo.List(cmd.Context(), journalLimit)
		}
		if err != nil {
			return err
		}

		formatter := presentation.NewFormatter(os.Stdout)
		return formatter.FormatJournal(presentation.FromJournalEntries(entries))
	},
}

func init() {
	journalListCmd.Flags().StringVarP(&journalKind, "kind", "k", "", "Restrict to one template kind")
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "l", 20, "Maximum entries to return (0 = all)")
	rootCmd.AddCommand(journalListCmd)
}
