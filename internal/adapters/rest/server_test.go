package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger_adapter "qwiksale-search-service/internal/adapters/logger"
	"qwiksale-search-service/internal/contracts"
	"qwiksale-search-service/internal/core/domain"
	"qwiksale-search-service/internal/core/port"
)

type fakeSearchUC struct {
	page    *domain.SearchResultPage
	err     error
	lastReq domain.SearchRequest
}

func (f *fakeSearchUC) Execute(_ context.Context, req domain.SearchRequest) (*domain.SearchResultPage, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type fakeDictionariesUC struct {
	dicts map[domain.FacetDimension][]domain.FacetBucket
	err   error
}

func (f *fakeDictionariesUC) Execute(_ context.Context, _ []string) (map[domain.FacetDimension][]domain.FacetBucket, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.dicts, nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	lastKey string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	f.lastKey = key
	if f.err != nil {
		return false, f.err
	}
	return f.allowed, nil
}

func testLogger() port.LoggerPort {
	return logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard})
}

func samplePage() *domain.SearchResultPage {
	price := 45000.0
	sim := 0.64
	seller := uuid.New()
	return &domain.SearchResultPage{
		PageInfo: domain.NewPageInfo(1, 20, 1),
		Items: []domain.SearchItem{{
			ScoredListing: domain.ScoredListing{
				ID:         7,
				Title:      "iPhone 12 128GB",
				Price:      &price,
				Image:      "https://cdn.example/7.jpg",
				Town:       "Nairobi",
				Category:   "Phones",
				Brand:      "Apple",
				Condition:  "used",
				Featured:   true,
				CreatedAt:  time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC),
				SellerID:   seller,
				Similarity: &sim,
			},
			Badge: domain.SellerBadge{SellerID: seller, Verified: true, Tier: domain.TierGold},
		}},
		Facets: map[domain.FacetDimension][]domain.FacetBucket{
			domain.FacetTown:      {{Value: "Nairobi", Count: 1}},
			domain.FacetCategory:  {{Value: "Phones", Count: 1}},
			domain.FacetBrand:     {},
			domain.FacetCondition: {{Value: "used", Count: 1}},
		},
	}
}

func newTestServer(searchUC *fakeSearchUC, dictsUC *fakeDictionariesUC, limiter *fakeLimiter, health func(context.Context) error) *Server {
	if dictsUC == nil {
		dictsUC = &fakeDictionariesUC{}
	}
	// A typed nil inside the port interface would not read as "no limiter".
	if limiter == nil {
		return NewServer("0", NewSearchHandler(searchUC), NewDictionariesHandler(dictsUC), nil, health, testLogger())
	}
	return NewServer("0", NewSearchHandler(searchUC), NewDictionariesHandler(dictsUC), limiter, health, testLogger())
}

func TestSearchEndpoint_OKAndSchemaValid(t *testing.T) {
	searchUC := &fakeSearchUC{page: samplePage()}
	srv := newTestServer(searchUC, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=iphone&town=Nairobi&pageSize=20", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.Bytes()
	require.NoError(t, contracts.ValidateSearchResponse(body))

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].SellerVerified)
	assert.Equal(t, "gold", resp.Items[0].SellerFeaturedTier)
	assert.Equal(t, "gold", resp.Items[0].SellerBadges.Tier)
	assert.Equal(t, []FacetBucketResponse{{Value: "Nairobi", Count: 1}}, resp.Facets.Towns)
	assert.NotNil(t, resp.Facets.Brands)

	// Parameters reached the use case normalized.
	assert.Equal(t, "iphone", searchUC.lastReq.QueryText)
	assert.Equal(t, "Nairobi", searchUC.lastReq.Town)
}

func TestSearchEndpoint_CacheControl(t *testing.T) {
	t.Run("anonymous bounded request is edge-cacheable", func(t *testing.T) {
		srv := newTestServer(&fakeSearchUC{page: samplePage()}, nil, nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/search?page=2", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, "public, max-age=30, stale-while-revalidate=120", rec.Header().Get("Cache-Control"))
	})

	t.Run("authorization header forces no-store", func(t *testing.T) {
		srv := newTestServer(&fakeSearchUC{page: samplePage()}, nil, nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("session cookie forces no-store", func(t *testing.T) {
		srv := newTestServer(&fakeSearchUC{page: samplePage()}, nil, nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "abc"})
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("deep page forces no-store", func(t *testing.T) {
		srv := newTestServer(&fakeSearchUC{page: samplePage()}, nil, nil, nil)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/search?page=11", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})
}

func TestSearchEndpoint_StoreFailure(t *testing.T) {
	srv := newTestServer(&fakeSearchUC{err: errors.New("both modes failed")}, nil, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestSearchEndpoint_RateLimited(t *testing.T) {
	searchUC := &fakeSearchUC{page: samplePage()}
	limiter := &fakeLimiter{allowed: false}
	srv := newTestServer(searchUC, nil, limiter, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.Header.Set("X-Forwarded-For", "41.90.64.15, 10.0.0.2")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])

	// Leftmost forwarded address identifies the caller.
	assert.Equal(t, "41.90.64.15", limiter.lastKey)
	// The use case never ran.
	assert.Equal(t, "", searchUC.lastReq.QueryText)
	assert.Zero(t, searchUC.lastReq.Page)
}

func TestSearchEndpoint_LimiterFailureFailsOpen(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	srv := newTestServer(&fakeSearchUC{page: samplePage()}, nil, limiter, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDictionariesEndpoint(t *testing.T) {
	dictsUC := &fakeDictionariesUC{dicts: map[domain.FacetDimension][]domain.FacetBucket{
		domain.FacetTown: {{Value: "Nairobi", Count: 42}, {Value: "Mombasa", Count: 11}},
	}}
	srv := newTestServer(&fakeSearchUC{page: samplePage()}, dictsUC, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dictionaries?names=towns", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp DictionariesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp, "towns")
	assert.Equal(t, "Nairobi", resp["towns"][0].Value)
}

func TestDictionariesEndpoint_UnknownNames(t *testing.T) {
	srv := newTestServer(&fakeSearchUC{page: samplePage()}, &fakeDictionariesUC{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dictionaries?names=colors", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(&fakeSearchUC{page: samplePage()}, nil, nil, func(context.Context) error { return nil })
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("store unreachable", func(t *testing.T) {
		srv := newTestServer(&fakeSearchUC{page: samplePage()}, nil, nil, func(context.Context) error { return errors.New("no pool") })
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestClientIP(t *testing.T) {
	t.Run("remote addr fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.0.2.10:54321"
		assert.Equal(t, "192.0.2.10", clientIP(r))
	})

	t.Run("forwarded header wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7")
		assert.Equal(t, "203.0.113.7", clientIP(r))
	})
}
