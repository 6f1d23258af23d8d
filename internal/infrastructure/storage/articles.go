package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"NewsVerifier/internal/domain"
	"NewsVerifier/internal/ports"
)

const articlesTable = "scraped_articles"

// ArticleRepository reads articles written by the scraping process.
type ArticleRepository struct {
	db      *sql.DB
	dialect Dialect
}

var _ ports.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository wires a sql.DB implementation.
func NewArticleRepository(db *sql.DB, dialect Dialect) *ArticleRepository {
	return &ArticleRepository{db: db, dialect: dialect}
}

// Resolve looks up the article stored under url by exact match.
func (r *ArticleRepository) Resolve(ctx context.Context, url string) (domain.Article, error) {
	query, args, err := r.dialect.builder().
		Select("id", "title", "content").
		From(articlesTable).
		Where("url = ?", url).
		Limit(1).
		ToSql()
	if err != nil {
		return domain.Article{}, storeError("build article query", err)
	}

	var (
		article        = domain.Article{URL: url}
		title, content sql.NullString
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&article.ID, &title, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, fmt.Errorf("%w: no article for url %s", domain.ErrNotFound, url)
	}
	if err != nil {
		return domain.Article{}, storeError("query article", err)
	}

	article.Title = title.String
	article.Content = content.String
	return article, nil
}
