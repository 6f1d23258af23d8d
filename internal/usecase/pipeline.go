package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

const (
	probabilityScale = 1e6
	// divergenceTolerance bounds how far a stored score may drift from a
	// freshly computed one before it is worth a warning.
	divergenceTolerance = 1e-6
)

// PipelineDeps wires all driven adapters into the prediction pipeline.
type PipelineDeps struct {
	Articles    ports.ArticleRepository
	Predictions ports.PredictionStore
	Encoder     ports.EmbeddingExtractor
	Classifier  ports.Classifier
	Logger      *slog.Logger
}

// Pipeline scores a single article: resolve, embed, classify, validate,
// persist.
type Pipeline struct {
	articles    ports.ArticleRepository
	predictions ports.PredictionStore
	encoder     ports.EmbeddingExtractor
	classifier  ports.Classifier
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Pipeline{
		articles:    deps.Articles,
		predictions: deps.Predictions,
		encoder:     deps.Encoder,
		classifier:  deps.Classifier,
		logger:      logger,
	}
}

// Predict runs every stage for the article stored under url. Stages run
// strictly in order and the first failure ends the run.
func (p *Pipeline) Predict(ctx context.Context, url string) (domain.PredictionResult, error) {
	if err := p.validate(); err != nil {
		return domain.PredictionResult{}, err
	}
	if strings.TrimSpace(url) == "" {
		return domain.PredictionResult{}, fmt.Errorf("%w: article url is empty", domain.ErrInput)
	}

	article, err := p.articles.Resolve(ctx, url)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("resolve article: %w", err)
	}
	p.logger.Debug("article resolved", "article_id", article.ID, "url", url)

	titleEmbedding, err := p.encoder.Embed(ctx, article.Title)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("embed title of article %d: %w", article.ID, err)
	}

	contentEmbedding, err := p.encoder.Embed(ctx, article.Content)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("embed content of article %d: %w", article.ID, err)
	}

	raw, err := p.classifier.Predict(ctx, titleEmbedding, contentEmbedding)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("classify article %d: %w", article.ID, err)
	}

	realProbability, fakeProbability, err := DeriveProbabilities(raw)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("article %d: %w", article.ID, err)
	}
	p.logger.Debug("prediction derived",
		"article_id", article.ID,
		"real_news_probability", realProbability,
		"fake_news_probability", fakeProbability)

	stored, err := p.persist(ctx, article.ID, realProbability, fakeProbability)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("persist prediction for article %d: %w", article.ID, err)
	}

	return domain.PredictionResult{
		ArticleID:       article.ID,
		RealProbability: realProbability,
		FakeProbability: fakeProbability,
		Stored:          stored,
	}, nil
}

// persist writes the prediction unless one exists. On an existing row the
// fresh values are still returned to the caller.
func (p *Pipeline) persist(ctx context.Context, articleID int64, realProbability, fakeProbability float64) (bool, error) {
	exists, err := p.predictions.HasPrediction(ctx, articleID)
	if err != nil {
		return false, err
	}
	if exists {
		p.logger.Info("prediction already stored, skipping insert", "article_id", articleID)
		p.warnOnDivergence(ctx, articleID, realProbability)
		return false, nil
	}

	inserted, err := p.predictions.Insert(ctx, articleID, realProbability, fakeProbability)
	if err != nil {
		return false, err
	}
	if !inserted {
		// Lost a race against a concurrent run; the unique constraint kept
		// the first row.
		p.logger.Info("prediction inserted concurrently, skipping", "article_id", articleID)
		return false, nil
	}

	p.logger.Info("prediction stored", "article_id", articleID)
	return true, nil
}

func (p *Pipeline) warnOnDivergence(ctx context.Context, articleID int64, realProbability float64) {
	stored, err := p.predictions.Find(ctx, articleID)
	if err != nil {
		p.logger.Debug("load stored prediction", "article_id", articleID, "error", err)
		return
	}
	if math.Abs(stored.RealProbability-realProbability) > divergenceTolerance {
		p.logger.Warn("stored prediction differs from fresh result",
			"article_id", articleID,
			"stored_real_news_probability", stored.RealProbability,
			"fresh_real_news_probability", realProbability)
	}
}

func (p *Pipeline) validate() error {
	switch {
	case p.articles == nil:
		return fmt.Errorf("article repository is not configured")
	case p.predictions == nil:
		return fmt.Errorf("prediction store is not configured")
	case p.encoder == nil:
		return fmt.Errorf("embedding extractor is not configured")
	case p.classifier == nil:
		return fmt.Errorf("classifier is not configured")
	}
	return nil
}

// DeriveProbabilities rounds the classifier output to six decimals, derives
// the complementary fake probability and rejects values outside [0,1].
func DeriveProbabilities(raw float64) (float64, float64, error) {
	realProbability := round6(raw)
	fakeProbability := round6(1 - realProbability)

	if !inUnitInterval(realProbability) || !inUnitInterval(fakeProbability) {
		return 0, 0, fmt.Errorf("%w: real news probability %v is outside [0,1]", domain.ErrInvalidPrediction, realProbability)
	}

	return realProbability, fakeProbability, nil
}

func round6(v float64) float64 {
	return math.Round(v*probabilityScale) / probabilityScale
}

// inUnitInterval is false for NaN as well.
func inUnitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
