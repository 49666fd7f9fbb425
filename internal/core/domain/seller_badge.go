package domain

import (
	"strings"

	"github.com/google/uuid"
)

// SellerTier is the seller's featured tier shown next to the badge.
type SellerTier string

const (
	TierBasic   SellerTier = "basic"
	TierGold    SellerTier = "gold"
	TierDiamond SellerTier = "diamond"
)

// SellerBadge is the normalized trust badge for one seller.
type SellerBadge struct {
	SellerID uuid.UUID
	Verified bool
	Tier     SellerTier
}

// DefaultSellerBadge is what a seller gets when the directory lookup fails
// or none of the known fields resolve.
func DefaultSellerBadge(sellerID uuid.UUID) SellerBadge {
	return SellerBadge{SellerID: sellerID, Verified: false, Tier: TierBasic}
}

// SellerRecord is a loosely-typed seller profile. The seller store gives no
// schema guarantee for verification fields, so resolution scans a fixed
// priority list of field name variants instead of trusting any single shape.
type SellerRecord map[string]any

// Field name variants scanned in priority order. The first one that yields a
// usable value wins; later fields are not consulted.
var (
	verifiedFieldProbes = []string{
		"verified",
		"isVerified",
		"accountVerified",
		"sellerVerified",
		"isSellerVerified",
		"verifiedSeller",
		"isAccountVerified",
	}
	verifiedAtFieldProbes = []string{
		"verifiedAt",
		"verified_at",
		"verified_on",
		"verifiedOn",
		"verificationDate",
	}
	tierFieldProbes = []string{
		"tier",
		"sellerTier",
		"featuredTier",
		"plan",
		"subscriptionPlan",
		"membership",
		"accountType",
	}
)

// VerifiedFieldProbes returns the boolean-ish field names in priority order.
// Exposed so the store-side verified filter can mirror the same scan.
func VerifiedFieldProbes() []string {
	return append([]string(nil), verifiedFieldProbes...)
}

// VerifiedAtFieldProbes returns the timestamp field names whose presence
// implies a verified seller.
func VerifiedAtFieldProbes() []string {
	return append([]string(nil), verifiedAtFieldProbes...)
}

// ResolveSellerBadge normalizes a seller record into a badge. A record with
// none of the known fields resolves to the default badge.
func ResolveSellerBadge(sellerID uuid.UUID, rec SellerRecord) SellerBadge {
	badge := DefaultSellerBadge(sellerID)
	if rec == nil {
		return badge
	}
	badge.Verified = resolveVerified(rec)
	badge.Tier = resolveTier(rec)
	return badge
}

func resolveVerified(rec SellerRecord) bool {
	for _, field := range verifiedFieldProbes {
		v, present := rec[field]
		if !present {
			continue
		}
		if b, ok := probeBool(v); ok {
			return b
		}
	}
	// No boolean-ish field resolved: the presence of a verification
	// timestamp still counts as verified.
	for _, field := range verifiedAtFieldProbes {
		if hasTimestampValue(rec[field]) {
			return true
		}
	}
	return false
}

func resolveTier(rec SellerRecord) SellerTier {
	for _, field := range tierFieldProbes {
		v, present := rec[field]
		if !present {
			continue
		}
		if tier, ok := probeTier(v); ok {
			return tier
		}
	}
	return TierBasic
}

// probeBool interprets one loosely-typed value: a bool is taken as-is, a
// number is truthy-cast, a string is matched against a small vocabulary.
// Anything else leaves the value unresolved.
func probeBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case float64:
		return val != 0, true
	case float32:
		return val != 0, true
	case int:
		return val != 0, true
	case int64:
		return val != 0, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "true", "yes", "verified":
			return true, true
		case "0", "false", "no", "unverified":
			return false, true
		}
	}
	return false, false
}

// probeTier matches tier-like strings by substring; "diamond" wins over
// "gold" when a value somehow carries both.
func probeTier(v any) (SellerTier, bool) {
	s, ok := v.(string)
	if !ok {
		return TierBasic, false
	}
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "diamond"):
		return TierDiamond, true
	case strings.Contains(s, "gold"):
		return TierGold, true
	}
	return TierBasic, false
}

func hasTimestampValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	default:
		return true
	}
}
