// Package report renders command results on stdout. Every command writes
// exactly one JSON document so callers can parse the output directly.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

type predictionLine struct {
	RealNewsProbability float64 `json:"real_news_probability"`
	FakeNewsProbability float64 `json:"fake_news_probability"`
}

type errorLine struct {
	Error string `json:"error"`
}

type storedLine struct {
	Title               string  `json:"title"`
	RealNewsProbability float64 `json:"real_news_probability"`
	FakeNewsProbability float64 `json:"fake_news_probability"`
	CreatedAt           string  `json:"created_at"`
}

// WritePrediction prints the success line of a predict run.
func WritePrediction(w io.Writer, result domain.PredictionResult) error {
	return writeLine(w, predictionLine{
		RealNewsProbability: result.RealProbability,
		FakeNewsProbability: result.FakeProbability,
	})
}

// WriteError prints the failure line carrying err's message.
func WriteError(w io.Writer, err error) error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return writeLine(w, errorLine{Error: msg})
}

// WriteStored prints a persisted prediction with its article title.
func WriteStored(w io.Writer, sp domain.StoredPrediction) error {
	return writeLine(w, storedLine{
		Title:               sp.Title,
		RealNewsProbability: sp.RealProbability,
		FakeNewsProbability: sp.FakeProbability,
		CreatedAt:           sp.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func writeLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// HeadlineWriter prints scraped headlines as a single JSON array.
type HeadlineWriter struct {
	w io.Writer
}

var _ ports.HeadlineSink = (*HeadlineWriter)(nil)

func NewHeadlineWriter(w io.Writer) *HeadlineWriter {
	return &HeadlineWriter{w: w}
}

func (h *HeadlineWriter) Publish(_ context.Context, headlines []domain.Headline) error {
	if headlines == nil {
		headlines = []domain.Headline{}
	}
	return writeLine(h.w, headlines)
}
