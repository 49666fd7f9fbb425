package port

import "context"

// RateLimiterPort decides whether a caller identified by key (usually its
// IP) may proceed. Consulted before any store work happens.
type RateLimiterPort interface {
	Allow(ctx context.Context, key string) (bool, error)
}
