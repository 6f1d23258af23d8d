package domain

import "time"

// Article is a scraped news article as stored by the ingestion process.
type Article struct {
	ID      int64
	URL     string
	Title   string
	Content string
}

// Embedding is the encoder's summary-token vector for a single text.
type Embedding []float32

// Prediction is the persisted real/fake score of an article.
type Prediction struct {
	ArticleID       int64
	RealProbability float64
	FakeProbability float64
	CreatedAt       time.Time
}

// StoredPrediction joins a persisted prediction with its article metadata.
type StoredPrediction struct {
	Prediction
	URL   string
	Title string
}

// PredictionResult is what a pipeline run reports to the caller.
type PredictionResult struct {
	ArticleID       int64
	RealProbability float64
	FakeProbability float64
	// Stored reports whether this run wrote the prediction row.
	Stored bool
}

// Headline is a ranking entry produced by the headline scraper.
type Headline struct {
	PressName string `json:"press_name"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}
