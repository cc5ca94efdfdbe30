package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierForPointsBoundaries(t *testing.T) {
	assert.Equal(t, TierNovice, TierForPoints(0))
	assert.Equal(t, TierNovice, TierForPoints(499))
	assert.Equal(t, TierAdept, TierForPoints(500))
	assert.Equal(t, TierAdept, TierForPoints(1999))
	assert.Equal(t, TierAlchemist, TierForPoints(2000))
	assert.Equal(t, TierMaster, TierForPoints(5000))
	assert.Equal(t, TierGrandmaster, TierForPoints(10000))
	assert.Equal(t, TierGrandmaster, TierForPoints(999999))
}

func TestTierRankOrdering(t *testing.T) {
	assert.Less(t, TierRank(TierNovice), TierRank(TierAdept))
	assert.Less(t, TierRank(TierAdept), TierRank(TierAlchemist))
	assert.Less(t, TierRank(TierAlchemist), TierRank(TierMaster))
	assert.Less(t, TierRank(TierMaster), TierRank(TierGrandmaster))
	assert.Equal(t, -1, TierRank("Charlatan"))
}

func TestGetTierInfoMidLadder(t *testing.T) {
	info := GetTierInfo(750)

	assert.Equal(t, TierAdept, info.Tier)
	require.NotNil(t, info.NextTier)
	assert.Equal(t, TierAlchemist, *info.NextTier)
	require.NotNil(t, info.PointsToNextTier)
	assert.Equal(t, 1250, *info.PointsToNextTier)
	assert.InDelta(t, 16.67, info.ProgressToNextTier, 0.01)
}

func TestGetTierInfoTopTier(t *testing.T) {
	info := GetTierInfo(25000)

	assert.Equal(t, TierGrandmaster, info.Tier)
	assert.Nil(t, info.NextTier)
	assert.Nil(t, info.PointsToNextTier)
	assert.Equal(t, float64(100), info.ProgressToNextTier)
}

func TestGetTierInfoExactBoundary(t *testing.T) {
	// Reaching a threshold exactly lands in the new tier.
	info := GetTierInfo(2000)
	assert.Equal(t, TierAlchemist, info.Tier)
	require.NotNil(t, info.PointsToNextTier)
	assert.Equal(t, 3000, *info.PointsToNextTier)
	assert.Equal(t, float64(0), info.ProgressToNextTier)
}
