package usecase

import (
	"context"
	"strings"

	"qwiksale-search-service/internal/contextkeys"
	"qwiksale-search-service/internal/core/domain"
	"qwiksale-search-service/internal/core/port"
)

// GetDictionariesUseCase returns the distinct values per dimension for
// populating the filter UI before any search has run. It is the facet
// aggregator over an unfiltered request: same buckets, same caps.
type GetDictionariesUseCase struct {
	facets port.FacetReaderPort
}

func NewGetDictionariesUseCase(facets port.FacetReaderPort) *GetDictionariesUseCase {
	return &GetDictionariesUseCase{facets: facets}
}

// Execute collects the requested dictionaries; an empty names list means
// all of them. A failing dimension is omitted rather than failing the rest.
func (uc *GetDictionariesUseCase) Execute(ctx context.Context, names []string) (map[domain.FacetDimension][]domain.FacetBucket, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetDictionaries"})
	ucLogger.Info("Use case started", nil)

	requested := make(map[string]bool)
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			requested[name] = true
		}
	}

	unfiltered := domain.NormalizeSearchRequest(nil)
	result := make(map[domain.FacetDimension][]domain.FacetBucket)
	for _, dim := range domain.FacetDimensions {
		if len(requested) > 0 && !requested[string(dim)] {
			continue
		}
		buckets, err := uc.facets.CountFacet(ctx, unfiltered, dim)
		if err != nil {
			ucLogger.Error("Failed to read dictionary dimension", err, port.Fields{"dimension": string(dim)})
			continue
		}
		result[dim] = buckets
	}
	return result, nil
}
