package ml

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

const probeText = "뉴스"

// OpenAIEncoder calls an OpenAI-compatible embeddings endpoint. The server
// behind it must return CLS-pooled vectors and truncate long inputs.
type OpenAIEncoder struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
	logger    *slog.Logger
}

var _ ports.EmbeddingExtractor = (*OpenAIEncoder)(nil)

func NewOpenAIEncoder(cfg config.EncoderConfig, logger *slog.Logger) *OpenAIEncoder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout()}

	return &OpenAIEncoder{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     openai.EmbeddingModel(cfg.Model),
		dimension: cfg.Dimension,
		logger:    logger,
	}
}

// Load probes one embedding and checks its dimension.
func (e *OpenAIEncoder) Load(ctx context.Context) error {
	if _, err := e.Embed(ctx, probeText); err != nil {
		return fmt.Errorf("encoder probe: %w: %w", domain.ErrModelLoad, err)
	}
	e.logger.Info("encoder ready", "model", string(e.model), "dimension", e.dimension)
	return nil
}

func (e *OpenAIEncoder) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("embed: %w: %w", domain.ErrInference, err)
	}
	if len(resp.Data) != 1 {
		return nil, fmt.Errorf("%w: expected one embedding, got %d", domain.ErrInference, len(resp.Data))
	}
	if err := checkDimension(resp.Data[0].Embedding, e.dimension); err != nil {
		return nil, err
	}

	e.logger.Debug("embedding computed", "tokens", resp.Usage.PromptTokens)
	return domain.Embedding(resp.Data[0].Embedding), nil
}
