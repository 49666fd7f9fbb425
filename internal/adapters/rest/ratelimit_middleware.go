package rest

import (
	"net/http"

	"qwiksale-search-service/internal/contextkeys"
	"qwiksale-search-service/internal/core/port"
)

// RateLimitMiddleware rejects over-limit callers with 429 before any store
// work happens. A failing limiter backend fails open: throttling precision
// is worth less than availability of the read path.
func RateLimitMiddleware(limiter port.RateLimiterPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				contextkeys.LoggerFromContext(r.Context()).Warn("Rate limiter unavailable, allowing request", port.Fields{
					"client_ip": ip,
					"error":     err.Error(),
				})
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				contextkeys.LoggerFromContext(r.Context()).Warn("Request rate limited", port.Fields{"client_ip": ip})
				WriteJSONError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
