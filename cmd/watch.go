package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const watchDebounce = 2 * time.Second

// newWatchCmd runs sync whenever the records file changes, so sessions
// recorded by other processes are pushed without an explicit sync call.
func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Sync automatically whenever local records change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create file watcher: %w", err)
			}
			defer func() { _ = watcher.Close() }()

			// Watch the directory: the store replaces the file via rename,
			// which drops any watch on the file itself.
			if err := watcher.Add(filepath.Dir(app.recordsPath)); err != nil {
				return fmt.Errorf("watch data directory: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "watching %s\n", app.recordsPath)

			ctx := cmd.Context()
			var timer *time.Timer
			fire := make(chan struct{}, 1)

			for {
				select {
				case <-ctx.Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if filepath.Clean(event.Name) != app.recordsPath {
						continue
					}
					if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(watchDebounce, func() {
						select {
						case fire <- struct{}{}:
						default:
						}
					})
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					_, _ = fmt.Fprintf(out, "watch error: %v\n", err)
				case <-fire:
					report, err := app.sync.Sync(ctx)
					switch {
					case err != nil:
						_, _ = fmt.Fprintf(out, "sync failed: %v\n", err)
					case report.Skipped:
						_, _ = fmt.Fprintf(out, "sync skipped: %s\n", report.SkipReason)
					default:
						_, _ = fmt.Fprintf(out, "synced: %d pushed, %d fetched\n", report.PushAttempted, report.RemoteFetched)
					}
				}
			}
		},
	}
}
