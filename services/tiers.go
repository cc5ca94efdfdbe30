// services/tiers.go - Loyalty tier step function over lifetime earned points.
package services

// Tier names in ascending order with their lifetime-earned thresholds.
// Reaching a threshold exactly puts the player in that tier.
const (
	TierNovice      = "Novice"
	TierAdept       = "Adept"
	TierAlchemist   = "Alchemist"
	TierMaster      = "Master"
	TierGrandmaster = "Grandmaster"
)

type tierStep struct {
	Name      string
	Threshold int
}

var tierSteps = []tierStep{
	{TierNovice, 0},
	{TierAdept, 500},
	{TierAlchemist, 2000},
	{TierMaster, 5000},
	{TierGrandmaster, 10000},
}

// TierForPoints returns the tier name for a lifetime-earned total.
func TierForPoints(lifetimeEarned int) string {
	tier := tierSteps[0].Name
	for _, step := range tierSteps {
		if lifetimeEarned >= step.Threshold {
			tier = step.Name
		}
	}
	return tier
}

// TierRank returns the ordinal of a tier name, -1 for an unknown name.
// Higher ranks gate lower ones out of catalog redemptions.
func TierRank(name string) int {
	for i, step := range tierSteps {
		if step.Name == name {
			return i
		}
	}
	return -1
}

// TierInfo describes where a lifetime-earned total sits on the tier ladder.
// NextTier and PointsToNextTier are nil at the top tier, where progress
// reads 100.
type TierInfo struct {
	Tier               string  `json:"tier"`
	NextTier           *string `json:"next_tier"`
	PointsToNextTier   *int    `json:"points_to_next_tier"`
	ProgressToNextTier float64 `json:"progress_to_next_tier"`
}

// GetTierInfo computes the current tier, the next one, the points still
// needed to reach it, and the progress percentage between the two thresholds.
func GetTierInfo(lifetimeEarned int) TierInfo {
	rank := TierRank(TierForPoints(lifetimeEarned))
	info := TierInfo{Tier: tierSteps[rank].Name}

	if rank == len(tierSteps)-1 {
		info.ProgressToNextTier = 100
		return info
	}

	next := tierSteps[rank+1]
	needed := next.Threshold - lifetimeEarned
	info.NextTier = &next.Name
	info.PointsToNextTier = &needed

	span := next.Threshold - tierSteps[rank].Threshold
	info.ProgressToNextTier = float64(lifetimeEarned-tierSteps[rank].Threshold) / float64(span) * 100
	return info
}
