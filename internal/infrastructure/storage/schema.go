package storage

import (
	"context"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS scraped_articles (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id BIGSERIAL PRIMARY KEY,
		article_id BIGINT NOT NULL UNIQUE REFERENCES scraped_articles (id),
		real_news_probability DOUBLE PRECISION NOT NULL,
		fake_news_probability DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS predictions_created_at_idx ON predictions (created_at)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS scraped_articles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		article_id INTEGER NOT NULL UNIQUE REFERENCES scraped_articles (id),
		real_news_probability REAL NOT NULL,
		fake_news_probability REAL NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS predictions_created_at_idx ON predictions (created_at)`,
}

// Migrate creates the tables when missing. Running it twice is a no-op.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range d.dialect.schema {
		if _, err := d.conn.ExecContext(ctx, stmt); err != nil {
			return storeError("migrate", err)
		}
	}
	return nil
}
