package usecase

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsVerifier/internal/domain"
)

type memoryArticles map[string]domain.Article

func (m memoryArticles) Resolve(_ context.Context, url string) (domain.Article, error) {
	article, ok := m[url]
	if !ok {
		return domain.Article{}, fmt.Errorf("%w: %s", domain.ErrNotFound, url)
	}
	return article, nil
}

type memoryPredictions struct {
	rows    map[int64]domain.Prediction
	inserts int
	failHas error
}

func newMemoryPredictions() *memoryPredictions {
	return &memoryPredictions{rows: map[int64]domain.Prediction{}}
}

func (m *memoryPredictions) HasPrediction(_ context.Context, articleID int64) (bool, error) {
	if m.failHas != nil {
		return false, m.failHas
	}
	_, ok := m.rows[articleID]
	return ok, nil
}

func (m *memoryPredictions) Insert(_ context.Context, articleID int64, realProbability, fakeProbability float64) (bool, error) {
	if _, ok := m.rows[articleID]; ok {
		return false, nil
	}
	m.inserts++
	m.rows[articleID] = domain.Prediction{
		ArticleID:       articleID,
		RealProbability: realProbability,
		FakeProbability: fakeProbability,
	}
	return true, nil
}

func (m *memoryPredictions) Find(_ context.Context, articleID int64) (domain.Prediction, error) {
	p, ok := m.rows[articleID]
	if !ok {
		return domain.Prediction{}, domain.ErrNotFound
	}
	return p, nil
}

// hashEncoder derives a deterministic vector from the text.
type hashEncoder struct {
	dim   int
	calls []string
}

func (h *hashEncoder) Embed(_ context.Context, text string) (domain.Embedding, error) {
	h.calls = append(h.calls, text)
	f := fnv.New64a()
	_, _ = f.Write([]byte(text))
	seed := f.Sum64()
	vec := make(domain.Embedding, h.dim)
	for i := range vec {
		seed = seed*6364136223846793005 + 1442695040888963407
		vec[i] = float32(seed>>40) / float32(1<<24)
	}
	return vec, nil
}

type fixedClassifier struct {
	value float64
	err   error
	calls int
}

func (f *fixedClassifier) Predict(_ context.Context, title, content domain.Embedding) (float64, error) {
	f.calls++
	return f.value, f.err
}

// meanClassifier is a deterministic function of its inputs.
type meanClassifier struct{}

func (meanClassifier) Predict(_ context.Context, title, content domain.Embedding) (float64, error) {
	var sum float64
	for _, v := range title {
		sum += float64(v)
	}
	for _, v := range content {
		sum += float64(v)
	}
	return sum / float64(len(title)+len(content)), nil
}

const articleURL = "https://n.news.naver.com/article/001/0000000042"

func newTestPipeline(store *memoryPredictions, classifier *fixedClassifier) (*Pipeline, *hashEncoder) {
	encoder := &hashEncoder{dim: 8}
	articles := memoryArticles{
		articleURL: {ID: 42, URL: articleURL, Title: "T", Content: "C"},
	}
	return NewPipeline(PipelineDeps{
		Articles:    articles,
		Predictions: store,
		Encoder:     encoder,
		Classifier:  classifier,
	}), encoder
}

func TestPipelinePredictEndToEnd(t *testing.T) {
	t.Parallel()

	store := newMemoryPredictions()
	pipeline, encoder := newTestPipeline(store, &fixedClassifier{value: 0.873214})

	first, err := pipeline.Predict(context.Background(), articleURL)
	require.NoError(t, err)
	assert.Equal(t, int64(42), first.ArticleID)
	assert.Equal(t, 0.873214, first.RealProbability)
	assert.Equal(t, 0.126786, first.FakeProbability)
	assert.True(t, first.Stored)
	assert.Equal(t, []string{"T", "C"}, encoder.calls)

	second, err := pipeline.Predict(context.Background(), articleURL)
	require.NoError(t, err)
	assert.Equal(t, first.RealProbability, second.RealProbability)
	assert.Equal(t, first.FakeProbability, second.FakeProbability)
	assert.False(t, second.Stored)

	assert.Equal(t, 1, store.inserts)
	assert.Len(t, store.rows, 1)
	assert.Equal(t, 0.873214, store.rows[42].RealProbability)
}

func TestPipelineReturnsFreshValuesWhenAlreadyStored(t *testing.T) {
	t.Parallel()

	store := newMemoryPredictions()
	store.rows[42] = domain.Prediction{ArticleID: 42, RealProbability: 0.5, FakeProbability: 0.5}
	pipeline, _ := newTestPipeline(store, &fixedClassifier{value: 0.9})

	result, err := pipeline.Predict(context.Background(), articleURL)
	require.NoError(t, err)
	assert.Equal(t, 0.9, result.RealProbability)
	assert.False(t, result.Stored)
	assert.Equal(t, 0, store.inserts)
	assert.Equal(t, 0.5, store.rows[42].RealProbability)
}

func TestPipelineMissingArticle(t *testing.T) {
	t.Parallel()

	store := newMemoryPredictions()
	classifier := &fixedClassifier{value: 0.5}
	pipeline, encoder := newTestPipeline(store, classifier)

	_, err := pipeline.Predict(context.Background(), "https://example.com/unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, encoder.calls)
	assert.Equal(t, 0, classifier.calls)
	assert.Empty(t, store.rows)
}

func TestPipelineRejectsEmptyURL(t *testing.T) {
	t.Parallel()

	pipeline, encoder := newTestPipeline(newMemoryPredictions(), &fixedClassifier{value: 0.5})
	_, err := pipeline.Predict(context.Background(), "  ")
	assert.ErrorIs(t, err, domain.ErrInput)
	assert.Empty(t, encoder.calls)
}

func TestPipelineRejectsInvalidPredictions(t *testing.T) {
	t.Parallel()

	for _, raw := range []float64{math.NaN(), math.Inf(1), -0.25, 1.5, -0.0000006} {
		t.Run(fmt.Sprint(raw), func(t *testing.T) {
			t.Parallel()

			store := newMemoryPredictions()
			pipeline, _ := newTestPipeline(store, &fixedClassifier{value: raw})

			_, err := pipeline.Predict(context.Background(), articleURL)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidPrediction)
			assert.Empty(t, store.rows)
		})
	}
}

func TestPipelinePropagatesFailures(t *testing.T) {
	t.Parallel()

	t.Run("classifier", func(t *testing.T) {
		t.Parallel()
		store := newMemoryPredictions()
		pipeline, _ := newTestPipeline(store, &fixedClassifier{err: domain.ErrInference})

		_, err := pipeline.Predict(context.Background(), articleURL)
		assert.ErrorIs(t, err, domain.ErrInference)
		assert.Empty(t, store.rows)
	})

	t.Run("store", func(t *testing.T) {
		t.Parallel()
		store := newMemoryPredictions()
		store.failHas = fmt.Errorf("%w: connection reset", domain.ErrStore)
		pipeline, _ := newTestPipeline(store, &fixedClassifier{value: 0.3})

		_, err := pipeline.Predict(context.Background(), articleURL)
		assert.ErrorIs(t, err, domain.ErrStore)
		assert.Equal(t, 0, store.inserts)
	})
}

func TestPipelineRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewPipeline(PipelineDeps{}).Predict(context.Background(), articleURL)
	require.Error(t, err)
}

func TestPipelineIsDeterministic(t *testing.T) {
	t.Parallel()

	articles := memoryArticles{
		articleURL: {ID: 7, Title: "대통령, 오늘 기자회견", Content: "본문 내용입니다."},
	}
	run := func() float64 {
		pipeline := NewPipeline(PipelineDeps{
			Articles:    articles,
			Predictions: newMemoryPredictions(),
			Encoder:     &hashEncoder{dim: 32},
			Classifier:  meanClassifier{},
		})
		result, err := pipeline.Predict(context.Background(), articleURL)
		require.NoError(t, err)
		return result.RealProbability
	}

	first := run()
	for i := 0; i < 5; i++ {
		assert.InDelta(t, first, run(), 1e-6)
	}
}

func TestDeriveProbabilities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw      float64
		wantReal float64
		wantFake float64
	}{
		{raw: 0.873214, wantReal: 0.873214, wantFake: 0.126786},
		{raw: 0.1234567, wantReal: 0.123457, wantFake: 0.876543},
		{raw: 0, wantReal: 0, wantFake: 1},
		{raw: 1, wantReal: 1, wantFake: 0},
		{raw: 1.0000004, wantReal: 1, wantFake: 0},
		{raw: 0.9999996, wantReal: 1, wantFake: 0},
	}

	for _, tc := range cases {
		realProbability, fakeProbability, err := DeriveProbabilities(tc.raw)
		require.NoError(t, err, "raw=%v", tc.raw)
		assert.Equal(t, tc.wantReal, realProbability, "raw=%v", tc.raw)
		assert.Equal(t, tc.wantFake, fakeProbability, "raw=%v", tc.raw)
	}
}

func TestDeriveProbabilitiesSumsToOne(t *testing.T) {
	t.Parallel()

	for i := 0; i <= 10000; i++ {
		raw := float64(i) / 10000 * 0.999999937
		realProbability, fakeProbability, err := DeriveProbabilities(raw)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, realProbability, 0.0)
		assert.LessOrEqual(t, realProbability, 1.0)
		assert.GreaterOrEqual(t, fakeProbability, 0.0)
		assert.LessOrEqual(t, fakeProbability, 1.0)
		assert.Equal(t, 1.0, round6(realProbability+fakeProbability), "raw=%v", raw)
	}
}

func TestDeriveProbabilitiesRejectsNaN(t *testing.T) {
	t.Parallel()

	_, _, err := DeriveProbabilities(math.NaN())
	assert.True(t, errors.Is(err, domain.ErrInvalidPrediction))
}
