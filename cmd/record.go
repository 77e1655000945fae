package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lingodeck/lingodeck/internal/domain"
)

func newRecordCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record learning activity",
	}

	cmd.AddCommand(
		newRecordAddCmd(app),
	)

	return cmd
}

func newRecordAddCmd(app *app) *cobra.Command {
	var (
		lessonID    string
		lessonTitle string
		runID       string
		planned     int
		duration    int
		speed       float64
		finished    bool
		segments    int
		startedRaw  string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a completed learning session locally",
		RunE: func(cmd *cobra.Command, _ []string) error {
			startedAt := app.now()
			if startedRaw != "" {
				parsed, err := time.Parse(time.RFC3339, startedRaw)
				if err != nil {
					return fmt.Errorf("parse --started: %w", err)
				}
				startedAt = parsed
			}

			rec := domain.NewSessionRecord(lessonID, lessonTitle, startedAt)
			rec.RunID = runID
			rec.PlannedSeconds = planned
			rec.DurationSeconds = duration
			rec.Speed = domain.ClampSpeed(speed)
			rec.Finished = finished
			if segments > 0 {
				rec.Segments = segments
			}
			if duration > 0 {
				rec.EndedAt = startedAt.Add(time.Duration(duration) * time.Second)
			}
			rec.LastModifiedAt = app.now()

			if err := app.sync.SaveLocal(cmd.Context(), rec); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recorded session %s (not yet synced)\n", rec.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&lessonID, "lesson", "", "lesson identifier")
	cmd.Flags().StringVar(&lessonTitle, "title", "", "lesson title")
	cmd.Flags().StringVar(&runID, "run", "", "correlation run id")
	cmd.Flags().IntVar(&planned, "planned", 0, "planned listening seconds")
	cmd.Flags().IntVar(&duration, "duration", 0, "actual listening seconds")
	cmd.Flags().Float64Var(&speed, "speed", 1.0, "playback speed")
	cmd.Flags().BoolVar(&finished, "finished", false, "lesson was finished")
	cmd.Flags().IntVar(&segments, "segments", 1, "number of segments played")
	cmd.Flags().StringVar(&startedRaw, "started", "", "session start (RFC3339, default now)")
	_ = cmd.MarkFlagRequired("lesson")

	return cmd
}
