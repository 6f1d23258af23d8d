package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"NewsVerifier/internal/app"
	"NewsVerifier/internal/config"
	"NewsVerifier/internal/logging"
)

// version is overridden at build time with -ldflags "-X".
var version = "dev"

// errReported marks a failure whose JSON error line is already on stdout.
var errReported = errors.New("error reported")

type options struct {
	configPath string
	logLevel   string
	stdout     io.Writer
	stderr     io.Writer
}

func (o *options) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (o *options) logger(cfg config.Config) *slog.Logger {
	return logging.NewWithWriter(o.stderr, cfg.Logging.Level)
}

// application loads config and builds the app with a logger on stderr.
func (o *options) application() (*app.Application, *slog.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := o.logger(cfg)
	application, err := app.New(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return application, logger, nil
}

// NewRootCommand builds the command tree writing results to stdout and
// diagnostics to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "newsverifier",
		Short: "Score scraped news articles as real or fake",
		Long: `newsverifier scores articles already stored by the scraper.

It embeds the title and body with a pretrained encoder, runs the classifier
and records the score once per article. Results are printed to stdout as a
single JSON line; logs go to stderr.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ./config.yaml if present)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newPredictCommand(opts),
		newShowCommand(opts),
		newRecentCommand(opts),
		newHeadlinesCommand(opts),
		newMigrateCommand(opts),
		newConfigCommand(opts),
		newVersionCommand(opts),
	)

	return root
}

// Execute runs the CLI against the process streams and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return run(ctx, NewRootCommand(os.Stdout, os.Stderr), os.Args[1:], os.Stderr)
}

func run(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
