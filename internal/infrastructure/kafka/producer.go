package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"NewsVerifier/internal/config"
	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// HeadlineProducer hands scraped headlines to the ingestion process, one
// message per headline keyed by article URL.
type HeadlineProducer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
	now    func() time.Time
}

var _ ports.HeadlineSink = (*HeadlineProducer)(nil)

// NewHeadlineProducer builds a synchronous writer for the configured topic.
func NewHeadlineProducer(cfg config.KafkaConfig, logger *slog.Logger) *HeadlineProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return newHeadlineProducer(writer, cfg.Topic, logger)
}

func newHeadlineProducer(writer messageWriter, topic string, logger *slog.Logger) *HeadlineProducer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &HeadlineProducer{writer: writer, topic: topic, logger: logger, now: time.Now}
}

// Publish writes all headlines in one batch.
func (p *HeadlineProducer) Publish(ctx context.Context, headlines []domain.Headline) error {
	if len(headlines) == 0 {
		return nil
	}

	msgs, err := buildMessages(headlines, p.now())
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write headlines to %s: %w", p.topic, err)
	}

	p.logger.Info("headlines produced", "topic", p.topic, "count", len(msgs))
	return nil
}

// Close flushes and releases the writer.
func (p *HeadlineProducer) Close() error {
	return p.writer.Close()
}

func buildMessages(headlines []domain.Headline, at time.Time) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(headlines))
	for _, h := range headlines {
		value, err := json.Marshal(h)
		if err != nil {
			return nil, fmt.Errorf("marshal headline: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(h.URL),
			Value: value,
			Time:  at,
		})
	}
	return msgs, nil
}
