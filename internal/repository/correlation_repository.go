package repository

import (
	"database/sql"

	"newssense/internal/model"
)

type CorrelationRepository struct {
	db *sql.DB
}

func NewCorrelationRepository(db *sql.DB) *CorrelationRepository {
	return &CorrelationRepository{db: db}
}

// Insert creates the edge if absent and reports whether a row was
// created. An existing (instrument, article) pair is left untouched.
func (r *CorrelationRepository) Insert(edge *model.CorrelationEdge) (bool, error) {
	var id int64
	err := r.db.QueryRow(`
		INSERT INTO correlation(instrument_id, article_id, score, impact)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (instrument_id, article_id) DO NOTHING
		RETURNING id
	`, edge.InstrumentID, edge.ArticleID, edge.Score, edge.Impact).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	edge.ID = id
	return true, nil
}

func (r *CorrelationRepository) ListByArticle(articleID int64) ([]model.CorrelationEdge, error) {
	rows, err := r.db.Query(`
		SELECT id, instrument_id, article_id, score, impact, created_at
		FROM correlation
		WHERE article_id = $1
	`, articleID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []model.CorrelationEdge
	for rows.Next() {
		var e model.CorrelationEdge
		err := rows.Scan(&e.ID, &e.InstrumentID, &e.ArticleID, &e.Score, &e.Impact, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return edges, nil
}
