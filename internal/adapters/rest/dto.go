package rest

import (
	"time"

	"qwiksale-search-service/internal/core/domain"
)

// SellerBadgesResponse - DTO for the nested badge object.
type SellerBadgesResponse struct {
	Verified bool   `json:"verified"`
	Tier     string `json:"tier"`
}

// SearchItemResponse - DTO for one listing row in the result page.
// Similarity is null when the query text was empty or the store ran in
// substring-only mode.
type SearchItemResponse struct {
	ID                 int64                `json:"id"`
	Title              string               `json:"title"`
	Price              *float64             `json:"price"`
	Image              string               `json:"image"`
	Town               string               `json:"town"`
	Category           string               `json:"category"`
	Brand              string               `json:"brand"`
	Condition          string               `json:"condition"`
	Featured           bool                 `json:"featured"`
	SellerID           string               `json:"sellerId"`
	SellerVerified     bool                 `json:"sellerVerified"`
	SellerFeaturedTier string               `json:"sellerFeaturedTier"`
	SellerBadges       SellerBadgesResponse `json:"sellerBadges"`
	Similarity         *float64             `json:"similarity"`
	CreatedAt          time.Time            `json:"createdAt"`
}

// FacetBucketResponse - DTO for one facet value with its count.
type FacetBucketResponse struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FacetsResponse groups buckets per dimension under the outward names.
type FacetsResponse struct {
	Towns      []FacetBucketResponse `json:"towns"`
	Categories []FacetBucketResponse `json:"categories"`
	Brands     []FacetBucketResponse `json:"brands"`
	Conditions []FacetBucketResponse `json:"conditions"`
}

// SearchResponse - DTO for the whole search result page.
type SearchResponse struct {
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	Total      int                  `json:"total"`
	TotalPages int                  `json:"totalPages"`
	HasMore    bool                 `json:"hasMore"`
	Items      []SearchItemResponse `json:"items"`
	Facets     FacetsResponse       `json:"facets"`
}

func toSearchResponse(page *domain.SearchResultPage) SearchResponse {
	items := make([]SearchItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, SearchItemResponse{
			ID:                 item.ID,
			Title:              item.Title,
			Price:              item.Price,
			Image:              item.Image,
			Town:               item.Town,
			Category:           item.Category,
			Brand:              item.Brand,
			Condition:          item.Condition,
			Featured:           item.Featured,
			SellerID:           item.SellerID.String(),
			SellerVerified:     item.Badge.Verified,
			SellerFeaturedTier: string(item.Badge.Tier),
			SellerBadges: SellerBadgesResponse{
				Verified: item.Badge.Verified,
				Tier:     string(item.Badge.Tier),
			},
			Similarity: item.Similarity,
			CreatedAt:  item.CreatedAt,
		})
	}

	return SearchResponse{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		HasMore:    page.HasMore,
		Items:      items,
		Facets: FacetsResponse{
			Towns:      toFacetBuckets(page.Facets[domain.FacetTown]),
			Categories: toFacetBuckets(page.Facets[domain.FacetCategory]),
			Brands:     toFacetBuckets(page.Facets[domain.FacetBrand]),
			Conditions: toFacetBuckets(page.Facets[domain.FacetCondition]),
		},
	}
}

func toFacetBuckets(buckets []domain.FacetBucket) []FacetBucketResponse {
	out := make([]FacetBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, FacetBucketResponse{Value: b.Value, Count: b.Count})
	}
	return out
}

// DictionariesResponse maps dimension name to its value list, e.g.
// {"town": [{"value": "Nairobi", "count": 42}]}.
type DictionariesResponse map[string][]FacetBucketResponse
