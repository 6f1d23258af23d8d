package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

const predictionsTable = "predictions"

// PredictionRepository persists one prediction per article.
type PredictionRepository struct {
	db      *sql.DB
	dialect Dialect
}

var _ ports.PredictionStore = (*PredictionRepository)(nil)

// NewPredictionRepository wires a sql.DB implementation.
func NewPredictionRepository(db *sql.DB, dialect Dialect) *PredictionRepository {
	return &PredictionRepository{db: db, dialect: dialect}
}

// HasPrediction reports whether a row exists for the article.
func (r *PredictionRepository) HasPrediction(ctx context.Context, articleID int64) (bool, error) {
	query, args, err := r.dialect.builder().
		Select("1").
		From(predictionsTable).
		Where(sq.Eq{"article_id": articleID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, storeError("build existence query", err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeError("query prediction", err)
	}
	return true, nil
}

// Insert writes the prediction stamped with the database clock. The unique
// constraint on article_id turns a concurrent duplicate into a no-op, which
// is reported as false.
func (r *PredictionRepository) Insert(ctx context.Context, articleID int64, realProbability, fakeProbability float64) (bool, error) {
	query, args, err := r.dialect.builder().
		Insert(predictionsTable).
		Columns("article_id", "real_news_probability", "fake_news_probability", "created_at").
		Values(articleID, realProbability, fakeProbability, sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT (article_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, storeError("build insert", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, storeError("insert prediction", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, storeError("rows affected", err)
	}
	return affected > 0, nil
}

// Find returns the stored prediction for the article.
func (r *PredictionRepository) Find(ctx context.Context, articleID int64) (domain.Prediction, error) {
	query, args, err := r.dialect.builder().
		Select("article_id", "real_news_probability", "fake_news_probability", "created_at").
		From(predictionsTable).
		Where(sq.Eq{"article_id": articleID}).
		ToSql()
	if err != nil {
		return domain.Prediction{}, storeError("build prediction query", err)
	}

	var p domain.Prediction
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&p.ArticleID, &p.RealProbability, &p.FakeProbability, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Prediction{}, fmt.Errorf("%w: no prediction for article %d", domain.ErrNotFound, articleID)
	}
	if err != nil {
		return domain.Prediction{}, storeError("query prediction", err)
	}
	return p, nil
}

func (r *PredictionRepository) joined() sq.SelectBuilder {
	return r.dialect.builder().
		Select(
			"p.article_id", "a.url", "a.title",
			"p.real_news_probability", "p.fake_news_probability", "p.created_at",
		).
		From(predictionsTable + " p").
		Join(articlesTable + " a ON a.id = p.article_id")
}

// FindByURL returns the prediction joined with its article title.
func (r *PredictionRepository) FindByURL(ctx context.Context, url string) (domain.StoredPrediction, error) {
	query, args, err := r.joined().Where(sq.Eq{"a.url": url}).Limit(1).ToSql()
	if err != nil {
		return domain.StoredPrediction{}, storeError("build prediction query", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return domain.StoredPrediction{}, storeError("query prediction", err)
	}
	found, err := scanStored(rows)
	if err != nil {
		return domain.StoredPrediction{}, err
	}
	if len(found) == 0 {
		return domain.StoredPrediction{}, fmt.Errorf("%w: no prediction for url %s", domain.ErrNotFound, url)
	}
	return found[0], nil
}

// Recent lists the latest predictions, newest first.
func (r *PredictionRepository) Recent(ctx context.Context, limit int) ([]domain.StoredPrediction, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := r.joined().
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, storeError("build recent query", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeError("query recent", err)
	}
	return scanStored(rows)
}

func scanStored(rows *sql.Rows) ([]domain.StoredPrediction, error) {
	var result []domain.StoredPrediction
	for rows.Next() {
		var (
			sp    domain.StoredPrediction
			title sql.NullString
		)
		if err := rows.Scan(&sp.ArticleID, &sp.URL, &title,
			&sp.RealProbability, &sp.FakeProbability, &sp.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, storeError("scan prediction", err)
		}
		sp.Title = title.String
		result = append(result, sp)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, storeError("rows iteration", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, storeError("close rows", closeErr)
	}

	return result, nil
}
