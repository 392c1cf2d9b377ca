package tier

import (
	"math"

	"github.com/shopspring/decimal"
)

// Reward rule constants. The boost covers the top nine ranks and then
// floors at 0.2x.
const (
	rewardPerPoint    = 0.001
	rankBoostCeiling  = 10
	rankBoostDivisor  = 5
	rewardDecimals    = 3
	minRank           = 1
	minRankMultiplier = 1
)

// RankMultiplier returns max(1, 10-rank)/5. Ranks below 1 are treated as 1.
func RankMultiplier(rank int) float64 {
	if rank < minRank {
		rank = minRank
	}
	boost := rankBoostCeiling - rank
	if boost < minRankMultiplier {
		boost = minRankMultiplier
	}
	return float64(boost) / rankBoostDivisor
}

// CalculateRewards converts a popularity score and a 1-based rank into a
// SOL reward rounded to three decimals.
func CalculateRewards(popularity float64, rank int) float64 {
	if math.IsNaN(popularity) || math.IsInf(popularity, 0) || popularity < 0 {
		popularity = 0
	}
	base := popularity * rewardPerPoint
	return decimal.NewFromFloat(base * RankMultiplier(rank)).Round(rewardDecimals).InexactFloat64()
}

// Badge is the title shown next to a creator's rank.
type Badge string

const (
	BadgeChampion Badge = "Champion"
	BadgeElite    Badge = "Elite"
	BadgeMaster   Badge = "Master"
	BadgePro      Badge = "Pro"
	BadgeTrainer  Badge = "Trainer"
)

// RankBadge returns the badge for a 1-based rank.
func RankBadge(rank int) Badge {
	switch {
	case rank <= 1:
		return BadgeChampion
	case rank == 2:
		return BadgeElite
	case rank == 3:
		return BadgeMaster
	case rank <= 10:
		return BadgePro
	default:
		return BadgeTrainer
	}
}
