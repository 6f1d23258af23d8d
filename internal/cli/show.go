package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/report"
)

func newShowCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <url>",
		Short: "Print the stored prediction for url without running the models",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return reportError(opts, fmt.Errorf("%w: expected exactly one article url", domain.ErrInput))
			}

			application, _, err := opts.application()
			if err != nil {
				return reportError(opts, err)
			}
			defer application.Close()

			stored, err := application.Show(cmd.Context(), args[0])
			if err != nil {
				return reportError(opts, err)
			}
			return report.WriteStored(opts.stdout, stored)
		},
	}
}

func newRecentCommand(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the latest stored predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _, err := opts.application()
			if err != nil {
				return err
			}
			defer application.Close()

			predictions, err := application.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			report.WriteRecentTable(opts.stdout, predictions)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of predictions to list")

	return cmd
}
