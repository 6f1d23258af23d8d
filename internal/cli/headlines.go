package cli

import (
	"github.com/spf13/cobra"
)

func newHeadlinesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "headlines",
		Short: "Scrape ranking headlines for the configured presses",
		Long: `Scrape the configured ranking pages and print the headlines as a JSON
array of {press_name, title, url}. When headlines.kafka.brokers is set the
records are also produced to the configured topic for ingestion.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, _, err := opts.application()
			if err != nil {
				return reportError(opts, err)
			}
			defer application.Close()

			if _, err := application.CollectHeadlines(cmd.Context(), opts.stdout); err != nil {
				return reportError(opts, err)
			}
			return nil
		},
	}
}
