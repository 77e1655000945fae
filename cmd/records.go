package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	statusadapter "github.com/lingodeck/lingodeck/internal/adapters/render/status"
	"github.com/lingodeck/lingodeck/internal/domain"
)

func newRecordsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Manage local session records",
	}

	cmd.AddCommand(
		newRecordsListCmd(app),
		newRecordsDeleteCmd(app),
		newRecordsClearCmd(app),
	)

	return cmd
}

func newRecordsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show local session records and their sync state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := app.sync.Records(cmd.Context())
			if err != nil {
				return err
			}

			rendered, err := app.statusRender(records, nil, statusadapter.RenderOptions{Now: app.now()})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

func newRecordsDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete a session record locally and, best-effort, remotely",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.sync.DeleteRecord(cmd.Context(), domain.RecordID(args[0])); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newRecordsClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every session record locally and, best-effort, remotely",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.sync.ClearRecords(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all records cleared")
			return nil
		},
	}
}
