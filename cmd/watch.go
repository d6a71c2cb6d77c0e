package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openauthor/embedview/internal/log"
	"github.com/openauthor/embedview/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch template files and cascade on save",
	Long: `Watch every template backing file and run a cascading update for each
template kind whose file changes. Saves within the debounce window coalesce
into one cascade per kind. Runs until interrupted.

Examples:
  embedview watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		w, err := watcher.New(app.manifest, watcher.Config{
			DebounceDur: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		})
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		changed, err := w.Start()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Fprintln(cmd.OutOrStdout(), "watching template files; press ctrl-c to stop")
		for {
			select {
			case <-ctx.Done():
				return nil
			case kinds := <-changed:
				for _, kind := range kinds {
					set, err := app.engine.CascadeUpdate(ctx, kind)
					if err != nil {
						log.ErrorErr(log.CatCascade, "cascade failed", err, "kind", kind)
						fmt.Fprintf(cmd.ErrOrStderr(), "cascade %s: %v\n", kind, err)
						continue
					}
					saved, err := app.saveScreens(set.IDs())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "updated %s: %d screen(s), %d saved\n",
						kind, set.Len(), saved)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
