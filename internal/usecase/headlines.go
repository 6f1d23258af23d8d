package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

// HeadlineCollector fetches ranking headlines and fans them out to sinks.
type HeadlineCollector struct {
	source ports.HeadlineSource
	sinks  []ports.HeadlineSink
	logger *slog.Logger
}

// NewHeadlineCollector wires a headline source with its sinks.
func NewHeadlineCollector(source ports.HeadlineSource, logger *slog.Logger, sinks ...ports.HeadlineSink) *HeadlineCollector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HeadlineCollector{source: source, sinks: sinks, logger: logger}
}

// Collect runs one scrape and publishes the records to every sink in order.
func (c *HeadlineCollector) Collect(ctx context.Context) ([]domain.Headline, error) {
	if c.source == nil {
		return nil, fmt.Errorf("headline source is not configured")
	}

	headlines, err := c.source.FetchHeadlines(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines: %w", err)
	}
	c.logger.Info("headlines collected", "count", len(headlines))

	for _, sink := range c.sinks {
		if sink == nil {
			continue
		}
		if err := sink.Publish(ctx, headlines); err != nil {
			return nil, fmt.Errorf("publish headlines: %w", err)
		}
	}

	return headlines, nil
}
