package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

// TFServingClassifier calls the classifier head exported to TensorFlow
// Serving. It takes the title and content vectors as two named inputs and
// returns a single sigmoid output.
type TFServingClassifier struct {
	client       *client
	model        string
	titleInput   string
	contentInput string
	logger       *slog.Logger
}

var _ ports.Classifier = (*TFServingClassifier)(nil)

func NewTFServingClassifier(cfg config.ClassifierConfig, logger *slog.Logger) *TFServingClassifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TFServingClassifier{
		client:       newClient(cfg.Endpoint, "", cfg.Timeout()),
		model:        cfg.Model,
		titleInput:   cfg.TitleInput,
		contentInput: cfg.ContentInput,
		logger:       logger,
	}
}

func (c *TFServingClassifier) modelPath() string {
	return "/v1/models/" + url.PathEscape(c.model)
}

type modelStatus struct {
	ModelVersionStatus []struct {
		Version string `json:"version"`
		State   string `json:"state"`
		Status  struct {
			ErrorCode    string `json:"error_code"`
			ErrorMessage string `json:"error_message"`
		} `json:"status"`
	} `json:"model_version_status"`
}

// Load succeeds once some version of the model is AVAILABLE.
func (c *TFServingClassifier) Load(ctx context.Context) error {
	var status modelStatus
	if err := c.client.get(ctx, c.modelPath(), &status); err != nil {
		return fmt.Errorf("classifier status: %w: %w", domain.ErrModelLoad, err)
	}

	for _, v := range status.ModelVersionStatus {
		if v.State == "AVAILABLE" {
			c.logger.Info("classifier ready", "model", c.model, "version", v.Version)
			return nil
		}
	}
	return fmt.Errorf("%w: model %s has no available version", domain.ErrModelLoad, c.model)
}

type predictResponse struct {
	Outputs json.RawMessage `json:"outputs"`
}

// Predict returns the real-news score for one title/content pair.
func (c *TFServingClassifier) Predict(ctx context.Context, title, content domain.Embedding) (float64, error) {
	if len(title) == 0 || len(content) == 0 {
		return 0, fmt.Errorf("%w: empty embedding input", domain.ErrInference)
	}
	if len(title) != len(content) {
		return 0, fmt.Errorf("%w: title dimension %d differs from content dimension %d",
			domain.ErrInference, len(title), len(content))
	}

	payload := map[string]any{
		"inputs": map[string]any{
			c.titleInput:   [][]float32{title},
			c.contentInput: [][]float32{content},
		},
	}

	var resp predictResponse
	if err := c.client.post(ctx, c.modelPath()+":predict", payload, &resp); err != nil {
		return 0, fmt.Errorf("predict: %w: %w", domain.ErrInference, err)
	}

	score, err := parseOutputs(resp.Outputs)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrInference, err)
	}
	return score, nil
}

// parseOutputs accepts the columnar response as either a bare [[p]] tensor
// or a map holding one named output.
func parseOutputs(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("response has no outputs")
	}

	var tensor [][]float64
	if err := json.Unmarshal(raw, &tensor); err == nil {
		return single(tensor)
	}

	var named map[string][][]float64
	if err := json.Unmarshal(raw, &named); err != nil {
		return 0, fmt.Errorf("decode outputs: %w", err)
	}
	if len(named) != 1 {
		return 0, fmt.Errorf("expected one named output, got %d", len(named))
	}
	for _, tensor := range named {
		return single(tensor)
	}
	return 0, nil
}

func single(tensor [][]float64) (float64, error) {
	if len(tensor) != 1 || len(tensor[0]) != 1 {
		return 0, fmt.Errorf("expected a 1x1 output, got %d rows", len(tensor))
	}
	return tensor[0][0], nil
}
