package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lingodeck/lingodeck/internal/application"
	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

func newCacheCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the lesson media cache",
	}

	cmd.AddCommand(
		newCacheStatusCmd(app),
		newCacheGetCmd(app),
		newCacheFetchCmd(app),
		newCacheClearCmd(app),
		newCacheRedownloadCmd(app),
	)

	return cmd
}

func newCacheStatusCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <url>...",
		Short: "Report how much of a lesson's media is cached",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.cache.LessonStatus(cmd.Context(), args)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d files cached (%d bytes)\n",
				status.State, status.CachedURLs, status.TotalURLs, status.CachedBytes)
			return nil
		},
	}
}

func newCacheGetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <url>",
		Short: "Print the local path for a cached URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := app.cache.CachedFile(cmd.Context(), args[0])
			if errors.Is(err, domain.ErrCacheMiss) {
				return fmt.Errorf("%s is not cached", args[0])
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), entry.LocalPath)
			return nil
		},
	}
}

func newCacheFetchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>...",
		Short: "Download URLs into the cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, url := range args {
				entry, err := app.cache.DownloadAndCache(cmd.Context(), url, func(p ports.DownloadProgress) {
					if p.Done {
						_, _ = fmt.Fprintf(out, "%s: done (%d bytes)\n", url, p.Received)
					}
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, entry.LocalPath)
			}
			return nil
		},
	}
}

func newCacheClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [url...]",
		Short: "Remove cached media (everything when no URL is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := app.cache.ClearAll(cmd.Context()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
				return nil
			}

			if err := app.cache.ClearLesson(cmd.Context(), args); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared %d cached file(s)\n", len(args))
			return nil
		},
	}
}

func newCacheRedownloadCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redownload <url>...",
		Short: "Clear and re-download a lesson's media",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			return app.cache.RedownloadLesson(cmd.Context(), args, func(p application.URLProgress) {
				switch {
				case p.Err != nil:
					_, _ = fmt.Fprintf(out, "%s: failed: %v\n", p.URL, p.Err)
				case p.Done:
					_, _ = fmt.Fprintf(out, "%s: done (%d bytes)\n", p.URL, p.Received)
				}
			})
		},
	}
}
