package domain

// RequestContext carries the transport facts the assembler needs for its
// cache decision, resolved once at the REST boundary so the core stays
// ignorant of headers and cookies.
type RequestContext struct {
	IsAnonymous bool
	Page        int
	PageSize    int
}

// Bounds inside which an anonymous response may land in a shared cache.
// Deep pages and oversized pages are cheap to recompute and expensive to
// keep warm, so they stay out.
const (
	cacheableMaxPage     = 10
	cacheableMaxPageSize = 48
)

// CacheControl picks the response cache policy. Authenticated or deep-paged
// requests must never leak into an edge cache, so anything outside the
// anonymous bounded window is marked no-store.
func (rc RequestContext) CacheControl() string {
	if rc.IsAnonymous && rc.Page <= cacheableMaxPage && rc.PageSize <= cacheableMaxPageSize {
		return "public, max-age=30, stale-while-revalidate=120"
	}
	return "no-store"
}
