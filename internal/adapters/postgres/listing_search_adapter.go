package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"qwiksale-search-service/internal/contextkeys"
	"qwiksale-search-service/internal/core/domain"
	"qwiksale-search-service/internal/core/port"
)

// pgUndefinedFunction is the SQLSTATE Postgres raises when pg_trgm's
// similarity() is not installed.
const pgUndefinedFunction = "42883"

// ListingSearchAdapter runs the ranked result query with a per-request
// degradation policy: the trigram-scored plan is always tried first, and a
// "function does not exist" failure transparently re-issues the same
// logical query with substring-only matching. Capability is never cached
// across requests, so a maintenance window that removes or restores the
// extension needs no restart.
type ListingSearchAdapter struct {
	pool *pgxpool.Pool
}

func NewListingSearchAdapter(pool *pgxpool.Pool) (*ListingSearchAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingSearchAdapter{pool: pool}, nil
}

func (a *ListingSearchAdapter) FindListings(ctx context.Context, req domain.SearchRequest, query domain.ExpandedQuery, limit, offset int) (*domain.ListingSearchResult, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ListingSearchAdapter",
		"method":    "FindListings",
		"limit":     limit,
		"offset":    offset,
	})

	result, err := a.runSearch(ctx, req, query, true, limit, offset)
	if err == nil {
		return result, nil
	}
	if !isSimilarityUnavailable(err) {
		repoLogger.Error("Ranked listing query failed", err, nil)
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	repoLogger.Warn("Similarity function unavailable, retrying with substring matching", port.Fields{"cause": err.Error()})
	result, err = a.runSearch(ctx, req, query, false, limit, offset)
	if err != nil {
		repoLogger.Error("Degraded listing query failed", err, nil)
		return nil, fmt.Errorf("failed to search listings in degraded mode: %w", err)
	}
	result.Degraded = true
	return result, nil
}

func (a *ListingSearchAdapter) runSearch(ctx context.Context, req domain.SearchRequest, query domain.ExpandedQuery, capable bool, limit, offset int) (*domain.ListingSearchResult, error) {
	plan := buildSearchPlan(req, query, capable, limit, offset)

	rows, err := a.pool.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.ScoredListing, 0, limit)
	var total int64
	for rows.Next() {
		var l domain.ScoredListing
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Price, &l.Image, &l.Town, &l.Category, &l.Brand,
			&l.Condition, &l.Featured, &l.CreatedAt, &l.SellerID, &l.Similarity, &total,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing row: %w", err)
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// A page beyond the last row returns nothing, so the window count never
	// ran; only then is a second, count-only query worth it.
	if len(items) == 0 && offset > 0 {
		countPlan := buildCountPlan(req, query, capable)
		if err := a.pool.QueryRow(ctx, countPlan.SQL, countPlan.Args...).Scan(&total); err != nil {
			return nil, fmt.Errorf("failed to count listings past the last page: %w", err)
		}
	}

	return &domain.ListingSearchResult{Items: items, Total: int(total)}, nil
}

// isSimilarityUnavailable classifies the capability error that flips a
// request into degraded mode.
func isSimilarityUnavailable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedFunction
	}
	// Stores behind poolers sometimes surface the failure as a plain error.
	msg := err.Error()
	return strings.Contains(msg, "similarity") && strings.Contains(msg, "does not exist")
}
