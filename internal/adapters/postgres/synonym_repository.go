package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SynonymRepository reads the term -> expansion-words table. A term without
// an entry is a normal outcome, not an error.
type SynonymRepository struct {
	pool *pgxpool.Pool
}

func NewSynonymRepository(pool *pgxpool.Pool) (*SynonymRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &SynonymRepository{pool: pool}, nil
}

func (r *SynonymRepository) Expansions(ctx context.Context, term string) ([]string, error) {
	query := `SELECT words FROM search_synonyms WHERE term = $1`

	var words []string
	err := r.pool.QueryRow(ctx, query, term).Scan(&words)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up synonyms for %q: %w", term, err)
	}
	return words, nil
}
