package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the sync credential",
	}

	cmd.AddCommand(
		newAuthSetTokenCmd(app),
		newAuthClearCmd(app),
	)

	return cmd
}

func newAuthSetTokenCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set-token <token>",
		Short: "Store the bearer token used for syncing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.tokenStore.Store(cmd.Context(), args[0]); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "token stored")
			return nil
		},
	}
}

func newAuthClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored bearer token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.tokenStore.Invalidate(cmd.Context()); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "token cleared")
			return nil
		},
	}
}
