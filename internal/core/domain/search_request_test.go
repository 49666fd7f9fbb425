package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSearchRequest_Defaults(t *testing.T) {
	req := NormalizeSearchRequest(nil)

	assert.Equal(t, "", req.QueryText)
	assert.Equal(t, ConditionAny, req.Condition)
	assert.Equal(t, SortNewest, req.Sort)
	assert.False(t, req.VerifiedOnly)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, DefaultPageSize, req.PageSize)
	assert.Nil(t, req.PriceMin)
	assert.Nil(t, req.PriceMax)
}

func TestNormalizeSearchRequest_QueryText(t *testing.T) {
	t.Run("trims and lowercases", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"q": "  iPhone 12 Pro  "})
		assert.Equal(t, "iphone 12 pro", req.QueryText)
	})

	t.Run("NFC normalizes multibyte input", func(t *testing.T) {
		// "é" as combining sequence (U+0065 U+0301) vs composed (U+00E9)
		decomposed := NormalizeSearchRequest(map[string]string{"q": "café"})
		composed := NormalizeSearchRequest(map[string]string{"q": "café"})
		assert.Equal(t, composed.QueryText, decomposed.QueryText)
	})
}

func TestNormalizeSearchRequest_Prices(t *testing.T) {
	t.Run("valid bounds kept", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"minPrice": "100", "maxPrice": "500.50"})
		require.NotNil(t, req.PriceMin)
		require.NotNil(t, req.PriceMax)
		assert.Equal(t, 100.0, *req.PriceMin)
		assert.Equal(t, 500.50, *req.PriceMax)
	})

	t.Run("negative and garbage dropped", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"minPrice": "-5", "maxPrice": "cheap"})
		assert.Nil(t, req.PriceMin)
		assert.Nil(t, req.PriceMax)
	})

	t.Run("NaN and Inf dropped", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"minPrice": "NaN", "maxPrice": "+Inf"})
		assert.Nil(t, req.PriceMin)
		assert.Nil(t, req.PriceMax)
	})

	t.Run("inverted range rejects both bounds", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"minPrice": "900", "maxPrice": "100"})
		assert.Nil(t, req.PriceMin)
		assert.Nil(t, req.PriceMax)
	})
}

func TestNormalizeSearchRequest_Enums(t *testing.T) {
	t.Run("known condition", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"condition": " New "})
		assert.Equal(t, ConditionNew, req.Condition)
	})

	t.Run("unknown condition falls back to any", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"condition": "refurbished"})
		assert.Equal(t, ConditionAny, req.Condition)
	})

	t.Run("known sort", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"sort": "priceAsc"})
		assert.Equal(t, SortPriceAsc, req.Sort)
	})

	t.Run("unknown sort falls back to newest", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"sort": "relevance"})
		assert.Equal(t, SortNewest, req.Sort)
	})
}

func TestNormalizeSearchRequest_Pagination(t *testing.T) {
	t.Run("page below 1 clamps to 1", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"page": "0"})
		assert.Equal(t, 1, req.Page)
		req = NormalizeSearchRequest(map[string]string{"page": "-3"})
		assert.Equal(t, 1, req.Page)
	})

	t.Run("pageSize clamps into bounds", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"pageSize": "500"})
		assert.Equal(t, MaxPageSize, req.PageSize)
		req = NormalizeSearchRequest(map[string]string{"pageSize": "0"})
		assert.Equal(t, 1, req.PageSize)
		req = NormalizeSearchRequest(map[string]string{"pageSize": "48"})
		assert.Equal(t, 48, req.PageSize)
	})

	t.Run("non-numeric pagination keeps defaults", func(t *testing.T) {
		req := NormalizeSearchRequest(map[string]string{"page": "first", "pageSize": "lots"})
		assert.Equal(t, 1, req.Page)
		assert.Equal(t, DefaultPageSize, req.PageSize)
	})
}

func TestNormalizeSearchRequest_VerifiedOnly(t *testing.T) {
	for _, truthy := range []string{"1", "true", "TRUE", "yes"} {
		req := NormalizeSearchRequest(map[string]string{"verifiedOnly": truthy})
		assert.True(t, req.VerifiedOnly, "value %q", truthy)
	}
	for _, falsy := range []string{"", "0", "false", "no", "maybe"} {
		req := NormalizeSearchRequest(map[string]string{"verifiedOnly": falsy})
		assert.False(t, req.VerifiedOnly, "value %q", falsy)
	}
}

func TestNewExpandedQuery(t *testing.T) {
	t.Run("canonical first, duplicates and empties dropped", func(t *testing.T) {
		q := NewExpandedQuery("phone", []string{"mobile", "", "phone", "handset", "mobile"})
		assert.Equal(t, []string{"phone", "mobile", "handset"}, q.Terms)
		assert.Equal(t, "phone", q.Canonical())
		assert.False(t, q.IsEmpty())
	})

	t.Run("empty text means no text filter", func(t *testing.T) {
		q := NewExpandedQuery("", nil)
		assert.Equal(t, []string{""}, q.Terms)
		assert.True(t, q.IsEmpty())
	})
}
