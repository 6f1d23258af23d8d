package config

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration validation errors.
var (
	ErrUnknownDriver         = errors.New("database.driver must be 'pgx' or 'sqlite3'")
	ErrMissingDSN            = errors.New("database.dsn is required")
	ErrUnknownBackend        = errors.New("encoder.backend must be 'tei' or 'openai'")
	ErrMissingEncoderURL     = errors.New("encoder.endpoint is required")
	ErrMissingEncoderModel   = errors.New("encoder.model is required for the openai backend")
	ErrInvalidDimension      = errors.New("encoder.dimension must be positive")
	ErrMissingClassifierURL  = errors.New("classifier.endpoint is required")
	ErrMissingClassifierName = errors.New("classifier.model is required")
	ErrMissingInputNames     = errors.New("classifier.title_input and classifier.content_input are required")
	ErrNegativeTimeout       = errors.New("timeout_seconds must be non-negative")
	ErrInvalidSite           = errors.New("headlines site requires name, scanner and url")
	ErrInvalidPerPress       = errors.New("headlines site per_press must be positive")
	ErrMissingKafkaTopic     = errors.New("headlines.kafka.topic is required when brokers are set")
	ErrInvalidLogLevel       = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Validate checks the settings used by the prediction path and the headline
// scraper.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "pgx", "sqlite3":
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownDriver, c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return ErrMissingDSN
	}

	switch c.Encoder.Backend {
	case "tei":
	case "openai":
		if c.Encoder.Model == "" {
			return ErrMissingEncoderModel
		}
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownBackend, c.Encoder.Backend)
	}
	if c.Encoder.Endpoint == "" {
		return ErrMissingEncoderURL
	}
	if c.Encoder.Dimension <= 0 {
		return ErrInvalidDimension
	}

	if c.Classifier.Endpoint == "" {
		return ErrMissingClassifierURL
	}
	if c.Classifier.Model == "" {
		return ErrMissingClassifierName
	}
	if c.Classifier.TitleInput == "" || c.Classifier.ContentInput == "" {
		return ErrMissingInputNames
	}

	if c.Encoder.TimeoutSeconds < 0 || c.Classifier.TimeoutSeconds < 0 || c.Headlines.TimeoutSeconds < 0 {
		return ErrNegativeTimeout
	}

	for _, site := range c.Headlines.Sites {
		if site.Name == "" || site.Scanner == "" || site.URL == "" {
			return fmt.Errorf("%w: %+v", ErrInvalidSite, site)
		}
		if site.PerPress <= 0 {
			return fmt.Errorf("%w: site %s", ErrInvalidPerPress, site.Name)
		}
	}
	if len(c.Headlines.Kafka.Brokers) > 0 && c.Headlines.Kafka.Topic == "" {
		return ErrMissingKafkaTopic
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ErrInvalidLogLevel
	}

	return nil
}
