package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"qwiksale-search-service/internal/contextkeys"
	"qwiksale-search-service/internal/core/domain"
	"qwiksale-search-service/internal/core/port"
)

// SearchListingsUseCase runs one marketplace search: it expands the query
// text with synonyms, fans out the ranked result query and the four facet
// counts concurrently, resolves seller badges for the page, and assembles
// the final result page. The events port is optional (may be nil).
type SearchListingsUseCase struct {
	search   port.ListingSearchPort
	facets   port.FacetReaderPort
	sellers  port.SellerDirectoryPort
	synonyms port.SynonymLookupPort
	events   port.SearchEventsPort
}

func NewSearchListingsUseCase(
	search port.ListingSearchPort,
	facets port.FacetReaderPort,
	sellers port.SellerDirectoryPort,
	synonyms port.SynonymLookupPort,
	events port.SearchEventsPort,
) *SearchListingsUseCase {
	return &SearchListingsUseCase{
		search:   search,
		facets:   facets,
		sellers:  sellers,
		synonyms: synonyms,
		events:   events,
	}
}

func (uc *SearchListingsUseCase) Execute(ctx context.Context, req domain.SearchRequest) (*domain.SearchResultPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SearchListings",
		"query":    req.QueryText,
		"page":     req.Page,
	})
	ucLogger.Info("Use case started", nil)
	startTime := time.Now()

	query := uc.expandQuery(ctx, req.QueryText)

	// Facet counts share the structured filters with the result query but
	// not the text clause, so they can run while the main query does.
	facetResults := make([][]domain.FacetBucket, len(domain.FacetDimensions))
	var wg sync.WaitGroup
	for i, dim := range domain.FacetDimensions {
		wg.Add(1)
		go func(slot int, dim domain.FacetDimension) {
			defer wg.Done()
			buckets, err := uc.facets.CountFacet(ctx, req, dim)
			if err != nil {
				// One broken dimension must not break the page.
				ucLogger.Error("Facet count failed", err, port.Fields{"dimension": string(dim)})
				buckets = []domain.FacetBucket{}
			}
			facetResults[slot] = buckets
		}(i, dim)
	}

	offset := (req.Page - 1) * req.PageSize
	result, err := uc.search.FindListings(ctx, req, query, req.PageSize, offset)
	if err != nil {
		wg.Wait()
		ucLogger.Error("Listing search failed", err, nil)
		return nil, err
	}

	badges := uc.resolveBadges(ctx, ucLogger, result.Items)

	wg.Wait()

	items := make([]domain.SearchItem, 0, len(result.Items))
	for _, listing := range result.Items {
		items = append(items, domain.SearchItem{
			ScoredListing: listing,
			Badge:         badges[listing.SellerID],
		})
	}

	facets := make(map[domain.FacetDimension][]domain.FacetBucket, len(domain.FacetDimensions))
	for i, dim := range domain.FacetDimensions {
		facets[dim] = facetResults[i]
	}

	page := &domain.SearchResultPage{
		PageInfo: domain.NewPageInfo(req.Page, req.PageSize, result.Total),
		Items:    items,
		Facets:   facets,
	}

	uc.publishEvent(ctx, ucLogger, req, result, time.Since(startTime))

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.Total,
		"items_on_page": len(items),
		"degraded":      result.Degraded,
	})
	return page, nil
}

// expandQuery folds synonym expansions into the query. Lookup failures are
// advisory: the canonical text alone is always enough to search with.
func (uc *SearchListingsUseCase) expandQuery(ctx context.Context, text string) domain.ExpandedQuery {
	if text == "" || uc.synonyms == nil {
		return domain.NewExpandedQuery(text, nil)
	}
	words, err := uc.synonyms.Expansions(ctx, text)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Synonym lookup failed", port.Fields{"term": text, "error": err.Error()})
		words = nil
	}
	return domain.NewExpandedQuery(text, words)
}

// resolveBadges fetches seller records for the distinct sellers on the page
// and normalizes them into badges. Every seller gets a badge: directory
// failures and unknown sellers resolve to the unverified default.
func (uc *SearchListingsUseCase) resolveBadges(ctx context.Context, logger port.LoggerPort, listings []domain.ScoredListing) map[uuid.UUID]domain.SellerBadge {
	badges := make(map[uuid.UUID]domain.SellerBadge)
	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		if l.SellerID == uuid.Nil {
			continue
		}
		if _, seen := badges[l.SellerID]; seen {
			continue
		}
		badges[l.SellerID] = domain.DefaultSellerBadge(l.SellerID)
		ids = append(ids, l.SellerID)
	}
	if len(ids) == 0 {
		return badges
	}

	records, err := uc.sellers.GetSellerRecords(ctx, ids)
	if err != nil {
		logger.Error("Seller directory lookup failed, using default badges", err, port.Fields{"sellers": len(ids)})
		return badges
	}
	for id, rec := range records {
		badges[id] = domain.ResolveSellerBadge(id, rec)
	}
	return badges
}

func (uc *SearchListingsUseCase) publishEvent(ctx context.Context, logger port.LoggerPort, req domain.SearchRequest, result *domain.ListingSearchResult, took time.Duration) {
	if uc.events == nil {
		return
	}
	event := port.SearchEvent{
		TraceID:      contextkeys.TraceIDFromContext(ctx),
		QueryText:    req.QueryText,
		Town:         req.Town,
		Category:     req.Category,
		Brand:        req.Brand,
		VerifiedOnly: req.VerifiedOnly,
		Total:        result.Total,
		Degraded:     result.Degraded,
		DurationMs:   took.Milliseconds(),
		OccurredAt:   time.Now().UTC(),
	}
	if err := uc.events.PublishSearchPerformed(ctx, event); err != nil {
		logger.Warn("Failed to publish search event", port.Fields{"error": err.Error()})
	}
}
