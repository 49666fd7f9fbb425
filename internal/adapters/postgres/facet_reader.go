package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"qwiksale-search-service/internal/contextkeys"
	"qwiksale-search-service/internal/core/domain"
	"qwiksale-search-service/internal/core/port"
)

// FacetReaderAdapter runs the grouped counts behind facet chips and the
// dictionaries endpoint. Every dimension query shares the request's base
// predicate with the result query; the relevance clause never applies here.
type FacetReaderAdapter struct {
	pool *pgxpool.Pool
}

func NewFacetReaderAdapter(pool *pgxpool.Pool) (*FacetReaderAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FacetReaderAdapter{pool: pool}, nil
}

func (a *FacetReaderAdapter) CountFacet(ctx context.Context, req domain.SearchRequest, dim domain.FacetDimension) ([]domain.FacetBucket, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "FacetReaderAdapter",
		"dimension": string(dim),
	})

	plan := buildFacetPlan(req, dim)

	rows, err := a.pool.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		repoLogger.Error("Facet query failed", err, nil)
		return nil, fmt.Errorf("failed to count facet %s: %w", dim, err)
	}
	defer rows.Close()

	buckets := make([]domain.FacetBucket, 0, dim.BucketCap())
	for rows.Next() {
		var b domain.FacetBucket
		if err := rows.Scan(&b.Value, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan facet bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	repoLogger.Debug("Facet dimension counted", port.Fields{"buckets": len(buckets)})
	return buckets, nil
}
