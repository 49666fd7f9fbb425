package port

import (
	"context"

	"qwiksale-search-service/internal/core/domain"
)

// ListingSearchPort is the ranked result query against the listing store.
// Implementations must fall back to substring-only matching when the
// similarity primitive is unavailable, keeping filters, pagination and sort
// intact, and report that via ListingSearchResult.Degraded.
type ListingSearchPort interface {
	FindListings(ctx context.Context, req domain.SearchRequest, query domain.ExpandedQuery, limit, offset int) (*domain.ListingSearchResult, error)
}
