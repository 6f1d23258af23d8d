package ml

import (
	"context"
	"fmt"
	"log/slog"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

// Encoder is an embedding extractor that must be loaded before use.
type Encoder interface {
	ports.EmbeddingExtractor
	Load(ctx context.Context) error
}

// NewEncoder picks the backend named in configuration.
func NewEncoder(cfg config.EncoderConfig, logger *slog.Logger) (Encoder, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch cfg.Backend {
	case "tei":
		return NewTEIEncoder(cfg, logger), nil
	case "openai":
		return NewOpenAIEncoder(cfg, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown encoder backend %q", domain.ErrModelLoad, cfg.Backend)
	}
}

func checkDimension(vec []float32, want int) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty embedding", domain.ErrInference)
	}
	if want > 0 && len(vec) != want {
		return fmt.Errorf("%w: embedding dimension %d, want %d", domain.ErrInference, len(vec), want)
	}
	return nil
}
