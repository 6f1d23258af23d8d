package parser

import (
	"context"
	"fmt"
	"log/slog"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
	"NewsVerifier/internal/scanner"
)

// StrategySource implements HeadlineSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.HeadlineSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchHeadlines iterates over configured sites and executes their scanners.
func (s *StrategySource) FetchHeadlines(ctx context.Context) ([]domain.Headline, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch headlines", "sites", len(s.sites))

	var aggregated []domain.Headline
	for _, site := range s.sites {
		s.debug("process site", "site", site.Name, "scanner", site.Scanner, "presses", len(site.Presses))
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			SiteName: site.Name,
			URL:      site.URL,
			Presses:  site.Presses,
			PerPress: site.PerPress,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
		}

		s.debug("site produced headlines", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
