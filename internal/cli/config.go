package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"NewsVerifier/internal/config"
)

const masked = "********"

func newConfigCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the effective configuration.

Configuration hierarchy (highest to lowest priority):
1. --log-level flag
2. Environment variables (NEWSVERIFIER_*, DATABASE_DSN, OPENAI_API_KEY)
3. Config file (--config or ./config.yaml)
4. Defaults`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(redact(cfg))
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = opts.stdout.Write(data)
			return err
		},
	})

	return cmd
}

func redact(cfg config.Config) config.Config {
	if cfg.Encoder.APIKey != "" {
		cfg.Encoder.APIKey = masked
	}
	return cfg
}

func newVersionCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(opts.stdout, "newsverifier %s\n", version)
		},
	}
}
