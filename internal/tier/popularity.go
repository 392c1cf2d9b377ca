package tier

import (
	"math"

	"pokelaunch/internal/domain"
)

// Popularity weights.
const (
	marketCapWeight = 10
	stageWeight     = 25
	holderWeight    = 0.5
)

// SafeMarketCap returns marketCap, or 0 when it is NaN, infinite or
// negative. Sums and orderings over market caps go through it so one bad
// record cannot poison the rest.
func SafeMarketCap(marketCap float64) float64 {
	if math.IsNaN(marketCap) || math.IsInf(marketCap, 0) || marketCap < 0 {
		return 0
	}
	return marketCap
}

// MarketCapScore is the log-scaled market cap term: log10(mc+1)*10.
// The +1 offset keeps a zero market cap at a score of 0. Non-finite and
// negative values score 0.
func MarketCapScore(marketCap float64) float64 {
	return math.Log10(SafeMarketCap(marketCap)+1) * marketCapWeight
}

// StageScore is the fixed evolution bonus: stage*25.
func StageScore(stage domain.EvolutionStage) float64 {
	return float64(stage.Clamp()) * stageWeight
}

// HolderScore is the linear community term: holders*0.5.
func HolderScore(holders int64) float64 {
	if holders < 0 {
		holders = 0
	}
	return float64(holders) * holderWeight
}

// CalculatePopularity combines the three terms and rounds half up, the way
// the web client always has.
func CalculatePopularity(marketCap float64, stage domain.EvolutionStage, holders int64) int64 {
	score := MarketCapScore(marketCap) + StageScore(stage) + HolderScore(holders)
	return int64(math.Floor(score + 0.5))
}

// TokenPopularity scores a record with its derived stage and holder count.
func TokenPopularity(t domain.TokenRecord) int64 {
	return CalculatePopularity(t.MarketCap, TokenStage(t), t.Holders())
}
