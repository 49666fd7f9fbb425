package port

import (
	"context"

	"qwiksale-search-service/internal/core/domain"
)

// FacetReaderPort counts listings per dimension value under the structured
// filters of the request only - the free-text relevance clause never
// participates, so facet chips stay stable while the user types.
type FacetReaderPort interface {
	CountFacet(ctx context.Context, req domain.SearchRequest, dim domain.FacetDimension) ([]domain.FacetBucket, error)
}
