package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"NewsVerifier/internal/domain"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// Dialect captures what differs between the supported SQL backends.
type Dialect struct {
	Driver      string
	Placeholder sq.PlaceholderFormat
	schema      []string
}

// DialectFor resolves a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres:
		return Dialect{Driver: driver, Placeholder: sq.Dollar, schema: postgresSchema}, nil
	case DriverSQLite:
		return Dialect{Driver: driver, Placeholder: sq.Question, schema: sqliteSchema}, nil
	default:
		return Dialect{}, fmt.Errorf("%w: unsupported driver %q", domain.ErrStore, driver)
	}
}

func (d Dialect) builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(d.Placeholder)
}

// DB owns the connection used by one process.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// Open connects and pings the database. A single process handles one URL,
// so the pool is capped at one connection.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w: %w", domain.ErrStore, err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping database: %w: %w", domain.ErrStore, err)
	}

	return &DB{conn: conn, dialect: dialect}, nil
}

// Close releases the connection; safe on nil.
func (d *DB) Close() error {
	if d == nil || d.conn == nil {
		return nil
	}
	return d.conn.Close()
}

// Articles returns the article repository bound to this connection.
func (d *DB) Articles() *ArticleRepository {
	return NewArticleRepository(d.conn, d.dialect)
}

// Predictions returns the prediction repository bound to this connection.
func (d *DB) Predictions() *PredictionRepository {
	return NewPredictionRepository(d.conn, d.dialect)
}

func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStore, err)
}
