package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolveSellerBadge(t *testing.T) {
	sellerID := uuid.New()

	t.Run("string yes plus GOLD plan", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"isSellerVerified": "yes",
			"plan":             "GOLD",
		})
		assert.True(t, badge.Verified)
		assert.Equal(t, TierGold, badge.Tier)
	})

	t.Run("no known fields resolves to default", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"name": "Jackson Traders",
			"city": "Mombasa",
		})
		assert.False(t, badge.Verified)
		assert.Equal(t, TierBasic, badge.Tier)
	})

	t.Run("nil record resolves to default", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, nil)
		assert.Equal(t, DefaultSellerBadge(sellerID), badge)
	})

	t.Run("earlier probe wins over later", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"verified":         false,
			"isSellerVerified": true,
		})
		assert.False(t, badge.Verified)
	})

	t.Run("unresolvable value falls through to next probe", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"verified":   "pending", // unknown vocabulary, skipped
			"isVerified": true,
		})
		assert.True(t, badge.Verified)
	})

	t.Run("numeric truthiness", func(t *testing.T) {
		assert.True(t, ResolveSellerBadge(sellerID, SellerRecord{"verified": float64(1)}).Verified)
		assert.False(t, ResolveSellerBadge(sellerID, SellerRecord{"verified": float64(0)}).Verified)
	})

	t.Run("verification timestamp implies verified", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"verifiedAt": "2024-03-01T10:00:00Z",
		})
		assert.True(t, badge.Verified)
	})

	t.Run("explicit false beats timestamp presence", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"verified":   "no",
			"verifiedAt": "2024-03-01T10:00:00Z",
		})
		assert.False(t, badge.Verified)
	})

	t.Run("diamond beats gold inside one value", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"membership": "gold-diamond upgrade",
		})
		assert.Equal(t, TierDiamond, badge.Tier)
	})

	t.Run("tier matched as substring case-insensitively", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"subscriptionPlan": "Premium Gold Monthly",
		})
		assert.Equal(t, TierGold, badge.Tier)
	})

	t.Run("unknown tier value falls through to next probe", func(t *testing.T) {
		badge := ResolveSellerBadge(sellerID, SellerRecord{
			"tier":        "silver",
			"sellerTier":  "diamond",
			"accountType": "gold",
		})
		assert.Equal(t, TierDiamond, badge.Tier)
	})
}

func TestProbeLists_AreExported(t *testing.T) {
	// The SQL verified filter is generated from these lists; mutating the
	// returned copies must not alter resolution behavior.
	probes := VerifiedFieldProbes()
	probes[0] = "tampered"
	badge := ResolveSellerBadge(uuid.New(), SellerRecord{"verified": true})
	assert.True(t, badge.Verified)

	stamps := VerifiedAtFieldProbes()
	assert.NotEmpty(t, stamps)
}
