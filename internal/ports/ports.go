package ports

import (
	"context"

	"NewsVerifier/internal/domain"
)

// ArticleRepository resolves scraped articles by their stored URL.
type ArticleRepository interface {
	Resolve(ctx context.Context, url string) (domain.Article, error)
}

// PredictionStore records one prediction per article and never updates it.
type PredictionStore interface {
	HasPrediction(ctx context.Context, articleID int64) (bool, error)
	// Insert writes the prediction unless one already exists for the article
	// and reports whether a row was written.
	Insert(ctx context.Context, articleID int64, realProbability, fakeProbability float64) (bool, error)
	Find(ctx context.Context, articleID int64) (domain.Prediction, error)
}

// EmbeddingExtractor turns text into the encoder's summary-token vector.
type EmbeddingExtractor interface {
	Embed(ctx context.Context, text string) (domain.Embedding, error)
}

// Classifier scores a title/content embedding pair as real news.
type Classifier interface {
	Predict(ctx context.Context, title, content domain.Embedding) (float64, error)
}

// HeadlineSource pulls ranking headlines from configured sites.
type HeadlineSource interface {
	FetchHeadlines(ctx context.Context) ([]domain.Headline, error)
}

// HeadlineSink hands scraped headlines to the ingestion side.
type HeadlineSink interface {
	Publish(ctx context.Context, headlines []domain.Headline) error
}
