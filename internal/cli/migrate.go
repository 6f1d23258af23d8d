package cli

import (
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the article and prediction tables if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, logger, err := opts.application()
			if err != nil {
				return err
			}
			defer application.Close()

			if err := application.Migrate(cmd.Context()); err != nil {
				return err
			}
			logger.Info("schema ready")
			return nil
		},
	}
}
