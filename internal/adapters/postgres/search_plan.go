package postgres

import (
	"fmt"
	"strings"

	"qwiksale-search-service/internal/core/domain"
)

// listingColumns are the display fields selected for every result row.
const listingColumns = "l.id, l.title, l.price, l.image, l.town, l.category, l.brand, l.condition, l.featured, l.created_at, l.seller_id"

// similarityThreshold is the trigram score below which a row only survives
// via the substring safety net.
const similarityThreshold = 0.2

// basePredicate is the structured (non-text) portion of the WHERE clause.
// It is built once per request and shared byte-for-byte between the result
// query and every facet query; the free-text relevance clause never enters
// it, and absent filters contribute no clause at all so parameter numbering
// stays identical across both paths.
type basePredicate struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newBasePredicate(req domain.SearchRequest) *basePredicate {
	p := &basePredicate{argID: 1, args: make([]interface{}, 0)}

	if req.Town != "" {
		p.add("l.town = $%d", req.Town)
	}
	if req.Category != "" {
		p.add("l.category = $%d", req.Category)
	}
	if req.Brand != "" {
		p.add("l.brand = $%d", req.Brand)
	}
	if req.PriceMin != nil {
		p.add("l.price >= $%d", *req.PriceMin)
	}
	if req.PriceMax != nil {
		p.add("l.price <= $%d", *req.PriceMax)
	}
	if req.Condition != domain.ConditionAny {
		p.add("LOWER(l.condition) = LOWER($%d)", string(req.Condition))
	}
	if req.VerifiedOnly {
		// Verification is a seller-level trust attribute resolved from the
		// sellers side table, not a listing flag.
		p.conditions = append(p.conditions, verifiedSellerClause)
	}
	return p
}

func (p *basePredicate) add(condition string, arg interface{}) {
	p.conditions = append(p.conditions, fmt.Sprintf(condition, p.argID))
	p.args = append(p.args, arg)
	p.argID++
}

// whereClause renders the predicate, or "" when no filter is present.
func (p *basePredicate) whereClause() string {
	if len(p.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.conditions, " AND ")
}

// verifiedSellerClause is the SQL mirror of domain.ResolveSellerBadge's
// verified scan, so result rows, facet counts and the badges shown on the
// page all agree on who counts as verified. Built once at package init from
// the same probe lists the Go resolver uses.
var verifiedSellerClause = buildVerifiedSellerClause()

func buildVerifiedSellerClause() string {
	var b strings.Builder
	b.WriteString("EXISTS (SELECT 1 FROM sellers s WHERE s.id = l.seller_id AND (CASE")
	for _, field := range domain.VerifiedFieldProbes() {
		expr := fmt.Sprintf("LOWER(TRIM(s.profile->>'%s'))", field)
		fmt.Fprintf(&b, " WHEN %s IN ('1','true','yes','verified') THEN TRUE", expr)
		fmt.Fprintf(&b, " WHEN %s IN ('0','false','no','unverified') THEN FALSE", expr)
	}
	stamps := make([]string, 0)
	for _, field := range domain.VerifiedAtFieldProbes() {
		stamps = append(stamps, fmt.Sprintf("NULLIF(TRIM(s.profile->>'%s'), '')", field))
	}
	fmt.Fprintf(&b, " WHEN COALESCE(%s) IS NOT NULL THEN TRUE", strings.Join(stamps, ", "))
	b.WriteString(" ELSE FALSE END))")
	return b.String()
}

// searchPlan is a ready-to-execute query with its positional arguments.
type searchPlan struct {
	SQL  string
	Args []interface{}
}

// filteredRowSet is the shared middle of the result and count queries: the
// base predicate, the per-row similarity expression, and the relevance
// inclusion test, with one continuous parameter numbering.
type filteredRowSet struct {
	simExpr   string
	where     string
	inclusion string
	args      []interface{}
	nextArg   int
}

func assembleFilteredRowSet(req domain.SearchRequest, query domain.ExpandedQuery, capable bool) filteredRowSet {
	pred := newBasePredicate(req)
	rs := filteredRowSet{
		simExpr: "NULL::real",
		where:   pred.whereClause(),
		args:    pred.args,
		nextArg: pred.argID,
	}

	// Similarity is the max over every expanded term against both title and
	// description. Degraded mode and empty queries carry NULL instead.
	if capable && !query.IsEmpty() {
		parts := make([]string, 0, 2*len(query.Terms))
		for _, term := range query.Terms {
			parts = append(parts,
				fmt.Sprintf("similarity(lower(l.title), $%d)", rs.nextArg),
				fmt.Sprintf("similarity(lower(l.description), $%d)", rs.nextArg),
			)
			rs.args = append(rs.args, term)
			rs.nextArg++
		}
		rs.simExpr = "GREATEST(" + strings.Join(parts, ", ") + ")"
	}

	if !query.IsEmpty() {
		rs.args = append(rs.args, "%"+query.Canonical()+"%")
		like := rs.nextArg
		rs.nextArg++
		if capable {
			// The OR-substring clause is a safety net: an exactly typed
			// phrase is never excluded just because trigrams under-score it
			// (very short queries do).
			rs.inclusion = fmt.Sprintf("WHERE (sim > %g OR title ILIKE $%d OR description ILIKE $%d)", similarityThreshold, like, like)
		} else {
			rs.inclusion = fmt.Sprintf("WHERE (title ILIKE $%d OR description ILIKE $%d)", like, like)
		}
	}
	return rs
}

// buildSearchPlan assembles the ranked result query as a single pass: an
// inner select computes the trigram score per row, the outer select applies
// the relevance inclusion test, the window count and the ordering. With
// capable=false the similarity primitive is avoided entirely and matching
// falls back to substrings, everything else unchanged.
func buildSearchPlan(req domain.SearchRequest, query domain.ExpandedQuery, capable bool, limit, offset int) searchPlan {
	rs := assembleFilteredRowSet(req, query, capable)

	sql := fmt.Sprintf(`
		SELECT id, title, price, image, town, category, brand, condition, featured, created_at, seller_id, sim,
		       COUNT(*) OVER() AS total
		FROM (
			SELECT %s, l.description, %s AS sim
			FROM listings l
			%s
		) c
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		listingColumns, rs.simExpr, rs.where, rs.inclusion,
		buildOrderBy(req.Sort, capable && !query.IsEmpty()), rs.nextArg, rs.nextArg+1,
	)
	args := append(rs.args, limit, offset)

	return searchPlan{SQL: sql, Args: args}
}

// buildCountPlan is the count-only fallback used when a page lands beyond
// the last row and the window count has nothing to report. Same filters,
// same inclusion test, no paging.
func buildCountPlan(req domain.SearchRequest, query domain.ExpandedQuery, capable bool) searchPlan {
	rs := assembleFilteredRowSet(req, query, capable)

	sql := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM (
			SELECT l.title, l.description, %s AS sim
			FROM listings l
			%s
		) c
		%s`,
		rs.simExpr, rs.where, rs.inclusion,
	)
	return searchPlan{SQL: sql, Args: rs.args}
}

// buildOrderBy renders the full ordering policy: optional featured boost,
// relevance (when scored), the requested secondary sort, and an id
// tie-break so pagination stays deterministic across pages.
func buildOrderBy(sort domain.SortKey, scored bool) string {
	terms := make([]string, 0, 4)
	if sort == domain.SortFeaturedFirst {
		terms = append(terms, "featured DESC")
	}
	if scored {
		terms = append(terms, "sim DESC NULLS LAST")
	}
	switch sort {
	case domain.SortPriceAsc:
		terms = append(terms, "price ASC NULLS LAST")
	case domain.SortPriceDesc:
		terms = append(terms, "price DESC NULLS LAST")
	default:
		// newest, and the secondary order under featuredFirst
		terms = append(terms, "created_at DESC")
	}
	terms = append(terms, "id DESC")
	return "ORDER BY " + strings.Join(terms, ", ")
}

// buildFacetPlan renders one grouped count over the base predicate only.
// Null and empty dimension values are dropped at the store, and buckets
// come back ordered by count with the dimension's cap applied.
func buildFacetPlan(req domain.SearchRequest, dim domain.FacetDimension) searchPlan {
	pred := newBasePredicate(req)
	col := string(dim)

	where := pred.whereClause()
	notEmpty := fmt.Sprintf("l.%s IS NOT NULL AND l.%s <> ''", col, col)
	if where == "" {
		where = "WHERE " + notEmpty
	} else {
		where += " AND " + notEmpty
	}

	sql := fmt.Sprintf(`
		SELECT l.%s AS value, COUNT(*) AS count
		FROM listings l
		%s
		GROUP BY l.%s
		ORDER BY count DESC, value ASC
		LIMIT %d`,
		col, where, col, dim.BucketCap(),
	)
	return searchPlan{SQL: sql, Args: pred.args}
}
