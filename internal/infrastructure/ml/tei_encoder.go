package ml

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

// TEIEncoder calls a text-embeddings-inference runtime serving the encoder
// with CLS pooling, so every response is the first-token hidden state.
type TEIEncoder struct {
	client    *client
	dimension int
	maxTokens int
	logger    *slog.Logger
}

var _ ports.EmbeddingExtractor = (*TEIEncoder)(nil)

func NewTEIEncoder(cfg config.EncoderConfig, logger *slog.Logger) *TEIEncoder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TEIEncoder{
		client:    newClient(cfg.Endpoint, cfg.APIKey, cfg.Timeout()),
		dimension: cfg.Dimension,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}
}

type teiInfo struct {
	ModelID   string `json:"model_id"`
	ModelType struct {
		Embedding *struct {
			Pooling string `json:"pooling"`
		} `json:"embedding"`
	} `json:"model_type"`
	MaxInputLength int `json:"max_input_length"`
}

// Load verifies the runtime is up and pools on the CLS token.
func (e *TEIEncoder) Load(ctx context.Context) error {
	var info teiInfo
	if err := e.client.get(ctx, "/info", &info); err != nil {
		return fmt.Errorf("encoder info: %w: %w", domain.ErrModelLoad, err)
	}

	if info.ModelType.Embedding == nil {
		return fmt.Errorf("%w: %s is not an embedding model", domain.ErrModelLoad, info.ModelID)
	}
	if pooling := strings.ToLower(info.ModelType.Embedding.Pooling); pooling != "cls" {
		return fmt.Errorf("%w: %s uses %q pooling, want cls", domain.ErrModelLoad, info.ModelID, pooling)
	}

	if e.maxTokens > 0 && info.MaxInputLength != e.maxTokens {
		e.logger.Warn("encoder max input length differs from configuration",
			"runtime", info.MaxInputLength, "configured", e.maxTokens)
	}
	e.logger.Info("encoder ready", "model", info.ModelID, "max_input_length", info.MaxInputLength)
	return nil
}

// Embed returns the CLS vector of text, truncated by the runtime.
func (e *TEIEncoder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	payload := map[string]any{
		"inputs":   []string{text},
		"truncate": true,
	}

	var vectors [][]float32
	if err := e.client.post(ctx, "/embed", payload, &vectors); err != nil {
		return nil, fmt.Errorf("embed: %w: %w", domain.ErrInference, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: expected one embedding, got %d", domain.ErrInference, len(vectors))
	}
	if err := checkDimension(vectors[0], e.dimension); err != nil {
		return nil, err
	}

	return domain.Embedding(vectors[0]), nil
}
