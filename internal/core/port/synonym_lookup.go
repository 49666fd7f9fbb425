package port

import "context"

// SynonymLookupPort resolves expansion words for a normalized term.
// Lookups are advisory: a failed or empty lookup means "no synonyms",
// never a request error.
type SynonymLookupPort interface {
	Expansions(ctx context.Context, term string) ([]string, error)
}
