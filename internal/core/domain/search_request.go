package domain

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Condition is the listing condition buyers can filter on.
type Condition string

const (
	ConditionAny  Condition = "any"
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// SortKey selects the secondary ordering of the result page. Relevance
// ordering always comes first when a query text is present.
type SortKey string

const (
	SortNewest        SortKey = "newest"
	SortPriceAsc      SortKey = "priceAsc"
	SortPriceDesc     SortKey = "priceDesc"
	SortFeaturedFirst SortKey = "featuredFirst"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 50
)

// SearchRequest - the normalized, bounded filter set for a single search.
// Built only through NormalizeSearchRequest, so all invariants (clamped
// pagination, non-negative prices, known enum values) hold by construction.
type SearchRequest struct {
	QueryText    string
	Town         string
	Category     string
	Brand        string
	PriceMin     *float64
	PriceMax     *float64
	Condition    Condition
	VerifiedOnly bool
	Sort         SortKey
	Page         int
	PageSize     int
}

// NormalizeSearchRequest builds a SearchRequest from raw query parameters.
// It never fails: malformed values are dropped or clamped, unknown enum
// values fall back to their permissive defaults. A nil map yields the
// maximally permissive request.
func NormalizeSearchRequest(raw map[string]string) SearchRequest {
	req := SearchRequest{
		Condition: ConditionAny,
		Sort:      SortNewest,
		Page:      1,
		PageSize:  DefaultPageSize,
	}
	if raw == nil {
		return req
	}

	req.QueryText = normalizeQueryText(raw["q"])
	req.Town = strings.TrimSpace(raw["town"])
	req.Category = strings.TrimSpace(raw["category"])
	req.Brand = strings.TrimSpace(raw["brand"])

	req.PriceMin = parsePrice(raw["minPrice"])
	req.PriceMax = parsePrice(raw["maxPrice"])
	if req.PriceMin != nil && req.PriceMax != nil && *req.PriceMin > *req.PriceMax {
		// Inverted range: the pair is rejected rather than guessed at.
		req.PriceMin = nil
		req.PriceMax = nil
	}

	switch Condition(strings.ToLower(strings.TrimSpace(raw["condition"]))) {
	case ConditionNew:
		req.Condition = ConditionNew
	case ConditionUsed:
		req.Condition = ConditionUsed
	}

	switch SortKey(strings.TrimSpace(raw["sort"])) {
	case SortPriceAsc:
		req.Sort = SortPriceAsc
	case SortPriceDesc:
		req.Sort = SortPriceDesc
	case SortFeaturedFirst:
		req.Sort = SortFeaturedFirst
	}

	req.VerifiedOnly = parseFlag(raw["verifiedOnly"])

	if page, err := strconv.Atoi(raw["page"]); err == nil && page > 1 {
		req.Page = page
	}
	if size, err := strconv.Atoi(raw["pageSize"]); err == nil {
		switch {
		case size < 1:
			req.PageSize = 1
		case size > MaxPageSize:
			req.PageSize = MaxPageSize
		default:
			req.PageSize = size
		}
	}

	return req
}

// normalizeQueryText trims, NFC-normalizes and lower-cases free text, so
// multibyte input compares consistently against stored titles.
func normalizeQueryText(q string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(q)))
}

func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
