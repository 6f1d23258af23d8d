package ml

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/domain"
)

func vector(dim int, value float32) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = value
	}
	return v
}

func newTEIServer(t *testing.T, pooling string, dim int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"model_id":"monologg/kobert","model_type":{"embedding":{"pooling":"`+pooling+`"}},"max_input_length":512}`)
	})
	mux.HandleFunc("POST /embed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs   []string `json:"inputs"`
			Truncate bool     `json:"truncate"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Truncate || len(req.Inputs) != 1 {
			http.Error(w, "bad request", http.StatusUnprocessableEntity)
			return
		}
		_ = json.NewEncoder(w).Encode([][]float32{vector(dim, float32(len(req.Inputs[0])))})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func teiConfig(endpoint string) config.EncoderConfig {
	return config.EncoderConfig{Backend: "tei", Endpoint: endpoint, Dimension: 4, MaxTokens: 512, TimeoutSeconds: 5}
}

func TestTEIEncoder(t *testing.T) {
	t.Parallel()

	server := newTEIServer(t, "cls", 4)
	encoder := NewTEIEncoder(teiConfig(server.URL), nil)

	require.NoError(t, encoder.Load(context.Background()))

	vec, err := encoder.Embed(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.Embedding{3, 3, 3, 3}, vec)
}

func TestTEIEncoderRejectsMeanPooling(t *testing.T) {
	t.Parallel()

	server := newTEIServer(t, "mean", 4)
	err := NewTEIEncoder(teiConfig(server.URL), nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestTEIEncoderUnreachable(t *testing.T) {
	t.Parallel()

	server := newTEIServer(t, "cls", 4)
	endpoint := server.URL
	server.Close()

	encoder := NewTEIEncoder(teiConfig(endpoint), nil)
	assert.ErrorIs(t, encoder.Load(context.Background()), domain.ErrModelLoad)

	_, err := encoder.Embed(context.Background(), "text")
	assert.ErrorIs(t, err, domain.ErrInference)
}

func TestTEIEncoderDimensionMismatch(t *testing.T) {
	t.Parallel()

	server := newTEIServer(t, "cls", 3)
	_, err := NewTEIEncoder(teiConfig(server.URL), nil).Embed(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInference)
}

func TestOpenAIEncoder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(openai.EmbeddingResponse{
			Object: "list",
			Data: []openai.Embedding{
				{Object: "embedding", Embedding: vector(4, 0.5), Index: 0},
			},
			Model: "kobert-cls",
			Usage: openai.Usage{PromptTokens: 3, TotalTokens: 3},
		})
	}))
	defer server.Close()

	cfg := config.EncoderConfig{Backend: "openai", Endpoint: server.URL, APIKey: "test-key", Model: "kobert-cls", Dimension: 4}
	encoder, err := NewEncoder(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, encoder.Load(context.Background()))

	vec, err := encoder.Embed(context.Background(), "제목")
	require.NoError(t, err)
	assert.Len(t, vec, 4)

	cfg.Dimension = 768
	assert.ErrorIs(t, NewOpenAIEncoder(cfg, nil).Load(context.Background()), domain.ErrModelLoad)
}

func TestNewEncoderUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := NewEncoder(config.EncoderConfig{Backend: "onnx"}, nil)
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func newTFServingServer(t *testing.T, state string, outputs string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/models/fakenews", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"model_version_status":[{"version":"1","state":"`+state+`","status":{"error_code":"OK","error_message":""}}]}`)
	})
	mux.HandleFunc("POST /v1/models/fakenews:predict", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Inputs map[string][][]float32 `json:"inputs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Inputs["title_input"]) != 1 || len(req.Inputs["content_input"]) != 1 {
			http.Error(w, `{"error":"missing input"}`, http.StatusBadRequest)
			return
		}
		_, _ = io.WriteString(w, `{"outputs":`+outputs+`}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func classifierConfig(endpoint string) config.ClassifierConfig {
	return config.ClassifierConfig{
		Endpoint:     endpoint,
		Model:        "fakenews",
		TitleInput:   "title_input",
		ContentInput: "content_input",
	}
}

func TestTFServingClassifier(t *testing.T) {
	t.Parallel()

	for name, outputs := range map[string]string{
		"tensor": `[[0.873214]]`,
		"named":  `{"dense_1":[[0.873214]]}`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := newTFServingServer(t, "AVAILABLE", outputs)
			classifier := NewTFServingClassifier(classifierConfig(server.URL), nil)
			require.NoError(t, classifier.Load(context.Background()))

			score, err := classifier.Predict(context.Background(), vector(4, 1), vector(4, 2))
			require.NoError(t, err)
			assert.Equal(t, 0.873214, score)
		})
	}
}

func TestTFServingClassifierNotAvailable(t *testing.T) {
	t.Parallel()

	server := newTFServingServer(t, "LOADING", `[[0.5]]`)
	err := NewTFServingClassifier(classifierConfig(server.URL), nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrModelLoad)
}

func TestTFServingClassifierBadResponses(t *testing.T) {
	t.Parallel()

	for name, outputs := range map[string]string{
		"two rows":    `[[0.1],[0.2]]`,
		"two outputs": `{"a":[[0.1]],"b":[[0.2]]}`,
		"not numeric": `"oops"`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := newTFServingServer(t, "AVAILABLE", outputs)
			_, err := NewTFServingClassifier(classifierConfig(server.URL), nil).
				Predict(context.Background(), vector(4, 1), vector(4, 1))
			assert.ErrorIs(t, err, domain.ErrInference)
		})
	}
}

func TestTFServingClassifierRejectsMismatchedInputs(t *testing.T) {
	t.Parallel()

	classifier := NewTFServingClassifier(classifierConfig("http://127.0.0.1:1"), nil)
	_, err := classifier.Predict(context.Background(), vector(4, 1), vector(3, 1))
	assert.ErrorIs(t, err, domain.ErrInference)

	_, err = classifier.Predict(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInference)
}
