package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lingodeck",
		Short:         "lingodeck: offline-first lesson sync and media cache",
		Long:          "lingodeck records learning sessions locally, reconciles them with the remote catalog when a credential is available, and keeps lesson media cached for offline playback.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSyncCmd(app),
		newWatchCmd(app),
		newRecordCmd(app),
		newRecordsCmd(app),
		newCacheCmd(app),
		newAuthCmd(app),
	)

	return rootCmd
}
