package rest

import (
	"net"
	"net/http"
	"strings"

	"qwiksale-search-service/internal/core/domain"
)

// searchParamNames are the query parameters the search endpoint understands.
// Anything else in the URL is ignored.
var searchParamNames = []string{
	"q", "town", "category", "brand",
	"minPrice", "maxPrice",
	"condition", "sort", "verifiedOnly",
	"page", "pageSize",
}

// searchRequestFromQuery flattens the URL query into the raw parameter map
// the normalizer expects. Repeated parameters keep their first value.
func searchRequestFromQuery(r *http.Request) domain.SearchRequest {
	values := r.URL.Query()
	raw := make(map[string]string, len(searchParamNames))
	for _, name := range searchParamNames {
		if v := values.Get(name); v != "" {
			raw[name] = v
		}
	}
	return domain.NormalizeSearchRequest(raw)
}

// requestContextFor decides anonymity once at the boundary: a request is
// anonymous when it carries neither an Authorization header nor a session
// cookie. The core never sees headers or cookies.
func requestContextFor(r *http.Request, req domain.SearchRequest) domain.RequestContext {
	anonymous := r.Header.Get("Authorization") == ""
	if anonymous {
		if _, err := r.Cookie("session"); err == nil {
			anonymous = false
		}
	}
	return domain.RequestContext{
		IsAnonymous: anonymous,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
}

// clientIP extracts the caller address for rate limiting. The leftmost
// X-Forwarded-For entry wins when present, since the service sits behind a
// proxy in every deployed environment.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
