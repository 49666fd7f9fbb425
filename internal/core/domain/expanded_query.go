package domain

// ExpandedQuery is the normalized query text plus zero or more synonym
// terms, each weighted identically during scoring. Terms[0] is always the
// original (possibly empty) text.
type ExpandedQuery struct {
	Terms []string
}

// NewExpandedQuery combines the canonical text with synonym expansions,
// dropping empty and duplicate terms. The canonical text always stays first.
func NewExpandedQuery(text string, synonyms []string) ExpandedQuery {
	terms := []string{text}
	seen := map[string]bool{text: true}
	for _, s := range synonyms {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		terms = append(terms, s)
	}
	return ExpandedQuery{Terms: terms}
}

// Canonical returns the original query text.
func (q ExpandedQuery) Canonical() string {
	if len(q.Terms) == 0 {
		return ""
	}
	return q.Terms[0]
}

// IsEmpty reports whether there is no text filter at all.
func (q ExpandedQuery) IsEmpty() bool {
	return q.Canonical() == ""
}
