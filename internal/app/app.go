package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/infrastructure/kafka"
	"NewsVerifier/internal/infrastructure/ml"
	"NewsVerifier/internal/infrastructure/parser"
	"NewsVerifier/internal/infrastructure/storage"
	"NewsVerifier/internal/logging"
	"NewsVerifier/internal/ports"
	"NewsVerifier/internal/report"
	"NewsVerifier/internal/scanner"
	"NewsVerifier/internal/usecase"
)

// Application wires configs to adapters and owns their lifecycle: models
// are loaded once, the store is opened once, and Close releases both.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	encoder    ml.Encoder
	classifier *ml.TFServingClassifier
	store      *storage.DB
}

// New builds the adapters without touching the network.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	encoder, err := ml.NewEncoder(cfg.Encoder, baseLogger.With("component", "encoder"))
	if err != nil {
		return nil, err
	}

	return &Application{
		cfg:        cfg,
		logger:     baseLogger,
		encoder:    encoder,
		classifier: ml.NewTFServingClassifier(cfg.Classifier, baseLogger.With("component", "classifier")),
	}, nil
}

// LoadModels checks that the encoder and classifier runtimes are ready.
// Failures here abort the run before any per-article work.
func (a *Application) LoadModels(ctx context.Context) error {
	if err := a.encoder.Load(ctx); err != nil {
		return err
	}
	return a.classifier.Load(ctx)
}

// OpenStore connects to the configured database.
func (a *Application) OpenStore(ctx context.Context) (*storage.DB, error) {
	if a.store != nil {
		return a.store, nil
	}

	db, err := storage.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	a.store = db
	return db, nil
}

// Predict scores the article stored under url.
func (a *Application) Predict(ctx context.Context, url string, runLogger *slog.Logger) (domain.PredictionResult, error) {
	if runLogger == nil {
		runLogger = a.logger
	}

	if err := a.LoadModels(ctx); err != nil {
		return domain.PredictionResult{}, err
	}

	db, err := a.OpenStore(ctx)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Articles:    db.Articles(),
		Predictions: db.Predictions(),
		Encoder:     a.encoder,
		Classifier:  a.classifier,
		Logger:      runLogger.With("component", "pipeline"),
	})
	return pipeline.Predict(ctx, url)
}

// Show returns the stored prediction for url without running the models.
func (a *Application) Show(ctx context.Context, url string) (domain.StoredPrediction, error) {
	db, err := a.OpenStore(ctx)
	if err != nil {
		return domain.StoredPrediction{}, err
	}
	return db.Predictions().FindByURL(ctx, url)
}

// Recent lists the latest stored predictions.
func (a *Application) Recent(ctx context.Context, limit int) ([]domain.StoredPrediction, error) {
	db, err := a.OpenStore(ctx)
	if err != nil {
		return nil, err
	}
	return db.Predictions().Recent(ctx, limit)
}

// Migrate creates the schema.
func (a *Application) Migrate(ctx context.Context) error {
	db, err := a.OpenStore(ctx)
	if err != nil {
		return err
	}
	return db.Migrate(ctx)
}

// CollectHeadlines scrapes the configured ranking pages and writes them to
// out, and to Kafka when brokers are configured.
func (a *Application) CollectHeadlines(ctx context.Context, out io.Writer) (headlines []domain.Headline, err error) {
	cfg := a.cfg.Headlines
	client := &http.Client{Timeout: cfg.Timeout()}

	var robots *parser.RobotsPolicy
	if cfg.RespectRobots {
		robots = parser.NewRobotsPolicy(client, cfg.UserAgent)
	}

	registry := scanner.NewRegistry(parser.NewRankingScanner(client, cfg.UserAgent, robots))
	source := parser.NewStrategySource(registry, cfg.Sites, a.logger.With("component", "source"))

	// stdout goes last so a broker failure still leaves a single document.
	var sinks []ports.HeadlineSink
	if cfg.Kafka.Enabled() {
		producer := kafka.NewHeadlineProducer(cfg.Kafka, a.logger.With("component", "kafka"))
		defer func() {
			if closeErr := producer.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("close kafka producer: %w", closeErr))
			}
		}()
		sinks = append(sinks, producer)
	}
	sinks = append(sinks, report.NewHeadlineWriter(out))

	collector := usecase.NewHeadlineCollector(source, a.logger.With("component", "headlines"), sinks...)
	return collector.Collect(ctx)
}

// Close releases the database connection.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
