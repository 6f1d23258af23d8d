package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/report"
)

func newPredictCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <url>",
		Short: "Score the stored article at url and record the result",
		Long: `Score the stored article at url and record the result.

Prints {"real_news_probability": p, "fake_news_probability": 1-p} on success
or {"error": "..."} on failure, always as exactly one line.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := predict(cmd, opts, args)
			if err != nil {
				return reportError(opts, err)
			}
			if err := report.WritePrediction(opts.stdout, result); err != nil {
				return err
			}
			return nil
		},
	}
}

func predict(cmd *cobra.Command, opts *options, args []string) (result domain.PredictionResult, err error) {
	// Checked before any config or model work.
	switch {
	case len(args) == 0:
		return result, fmt.Errorf("%w: article url argument is required", domain.ErrInput)
	case len(args) > 1:
		return result, fmt.Errorf("%w: expected exactly one article url, got %d arguments", domain.ErrInput, len(args))
	}
	url := args[0]

	application, logger, err := opts.application()
	if err != nil {
		return result, err
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
		}
	}()

	runLogger := logger.With("run_id", uuid.NewString(), "url", url)
	runLogger.Debug("prediction started")

	result, err = application.Predict(cmd.Context(), url, runLogger)
	if err != nil {
		runLogger.Error("prediction failed", "error", err)
		return result, err
	}

	runLogger.Info("prediction finished",
		"article_id", result.ArticleID,
		"real_news_probability", result.RealProbability,
		"stored", result.Stored)
	return result, nil
}

// reportError prints the JSON error line and marks the failure as reported.
func reportError(opts *options, err error) error {
	if writeErr := report.WriteError(opts.stdout, err); writeErr != nil {
		return errors.Join(err, writeErr)
	}
	return errReported
}
