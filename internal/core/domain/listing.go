package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScoredListing is a listing row with its computed relevance score.
// Similarity is nil when the query text is empty or the store ran in
// degraded (substring-only) mode. Computed per request, never persisted.
type ScoredListing struct {
	ID         int64
	Title      string
	Price      *float64
	Image      string
	Town       string
	Category   string
	Brand      string
	Condition  string
	Featured   bool
	CreatedAt  time.Time
	SellerID   uuid.UUID
	Similarity *float64
}

// ListingSearchResult is the outcome of the ranked result query: one page of
// rows plus the total match count. Degraded marks that the substring-only
// fallback produced it.
type ListingSearchResult struct {
	Items    []ScoredListing
	Total    int
	Degraded bool
}

// FacetDimension is one filterable dimension shown to users as value counts.
type FacetDimension string

const (
	FacetTown      FacetDimension = "town"
	FacetCategory  FacetDimension = "category"
	FacetBrand     FacetDimension = "brand"
	FacetCondition FacetDimension = "condition"
)

// FacetDimensions lists every dimension in response order.
var FacetDimensions = []FacetDimension{FacetTown, FacetCategory, FacetBrand, FacetCondition}

// BucketCap is the maximum number of buckets returned for the dimension.
func (d FacetDimension) BucketCap() int {
	if d == FacetCondition {
		return 5
	}
	return 20
}

// FacetBucket is one value of a dimension with its matching listing count.
type FacetBucket struct {
	Value string
	Count int
}

// PageInfo carries the pagination metadata of a result page.
type PageInfo struct {
	Page       int
	PageSize   int
	Total      int
	TotalPages int
	HasMore    bool
}

// NewPageInfo derives totalPages and hasMore from a total match count.
// TotalPages is never below 1, so an empty result set still reads as a
// single empty page.
func NewPageInfo(page, pageSize, total int) PageInfo {
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// SearchItem is a scored listing with its seller badge merged in.
type SearchItem struct {
	ScoredListing
	Badge SellerBadge
}

// SearchResultPage is the outward result of one search request: ranked rows
// with badges, facet buckets per dimension, and pagination metadata.
// Immutable once assembled.
type SearchResultPage struct {
	PageInfo
	Items  []SearchItem
	Facets map[FacetDimension][]FacetBucket
}
