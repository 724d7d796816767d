package repository

import (
	"database/sql"
	"encoding/json"

	"newssense/internal/model"

	"github.com/lib/pq"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Save inserts the article and reports whether a row was created. A
// duplicate URL is absorbed by the unique constraint and returns false.
func (r *ArticleRepository) Save(article *model.NewsArticle) (bool, error) {
	entities, err := json.Marshal(article.Entities)
	if err != nil {
		return false, err
	}

	var id int64
	err = r.db.QueryRow(`
		INSERT INTO news_article(title, content, summary, url, source, published_at, scraped_at, sentiment_label, sentiment_score, entities, keywords)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (url) DO NOTHING
		RETURNING id
	`, article.Title, article.Content, article.Summary, article.URL, article.Source,
		article.PublishedAt, article.ScrapedAt, article.Sentiment.Label,
		article.Sentiment.Score, entities, textArray(article.Keywords)).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	article.ID = id
	return true, nil
}

func (r *ArticleRepository) GetByURL(url string) (*model.NewsArticle, error) {
	row := r.db.QueryRow(articleSelect+` WHERE url = $1`, url)
	return scanArticle(row)
}

func (r *ArticleRepository) GetByID(id int64) (*model.NewsArticle, error) {
	row := r.db.QueryRow(articleSelect+` WHERE id = $1`, id)
	return scanArticle(row)
}

func (r *ArticleRepository) List(limit, offset int) ([]model.NewsArticle, error) {
	rows, err := r.db.Query(articleSelect+`
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArticles(rows)
}

func (r *ArticleRepository) Total() (int, error) {
	var total int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM news_article`).Scan(&total)
	return total, err
}

func (r *ArticleRepository) ListByKeyword(keyword string, limit, offset int) ([]model.NewsArticle, error) {
	rows, err := r.db.Query(articleSelect+`
		WHERE keywords @> ARRAY[$1]
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`, keyword, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArticles(rows)
}

// ListByInstrument returns articles linked to the instrument through
// correlation edges. Edges whose article no longer exists are skipped
// by the join.
func (r *ArticleRepository) ListByInstrument(instrumentID int64, limit, offset int) ([]model.NewsArticle, error) {
	rows, err := r.db.Query(`
		SELECT a.id, a.title, a.content, a.summary, a.url, a.source, a.published_at, a.scraped_at,
		       a.sentiment_label, a.sentiment_score, a.entities, a.keywords
		FROM news_article a
		JOIN correlation c ON c.article_id = a.id
		WHERE c.instrument_id = $1
		ORDER BY a.published_at DESC
		LIMIT $2 OFFSET $3
	`, instrumentID, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectArticles(rows)
}

const articleSelect = `
	SELECT id, title, content, summary, url, source, published_at, scraped_at,
	       sentiment_label, sentiment_score, entities, keywords
	FROM news_article`

func scanArticle(row rowScanner) (*model.NewsArticle, error) {
	var a model.NewsArticle
	var entities []byte

	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Summary, &a.URL, &a.Source,
		&a.PublishedAt, &a.ScrapedAt, &a.Sentiment.Label, &a.Sentiment.Score,
		&entities, pq.Array(&a.Keywords))

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(entities, &a.Entities); err != nil {
		return nil, err
	}

	return &a, nil
}

func collectArticles(rows *sql.Rows) ([]model.NewsArticle, error) {
	var articles []model.NewsArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}
