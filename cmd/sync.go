package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSyncCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local session records with the remote store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := app.sync.Sync(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if report.Skipped {
				_, _ = fmt.Fprintf(out, "sync skipped: %s\n", report.SkipReason)
				return nil
			}

			_, _ = fmt.Fprintf(out, "sync completed in %s\n", report.Duration.Round(time.Millisecond))
			_, _ = fmt.Fprintf(out, "  local: %d, fetched: %d (%s)\n", report.LocalCount, report.RemoteFetched, report.FetchStatus)
			_, _ = fmt.Fprintf(out, "  pushed: %d attempted, %d failed, dirty %d -> %d\n",
				report.PushAttempted, report.PushFailed, report.DirtyBefore, report.DirtyAfter)
			return nil
		},
	}
}
