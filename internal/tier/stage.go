// Package tier derives evolution stages, popularity scores and creator
// rewards from market data. All functions are pure and safe for
// concurrent use.
package tier

import (
	"math"

	"pokelaunch/internal/domain"
)

// Market cap thresholds (inclusive lower bounds) for each evolution stage.
const (
	EvolvedThreshold   = 50_000
	MegaThreshold      = 250_000
	LegendaryThreshold = 1_000_000
)

// EvolutionStageFor classifies a market cap. Thresholds are checked
// highest-first because the ranges are half-open. NaN and negative values
// classify as stage 1.
func EvolutionStageFor(marketCap float64) domain.EvolutionStage {
	switch {
	case math.IsNaN(marketCap):
		return domain.StageHatchling
	case marketCap >= LegendaryThreshold:
		return domain.StageLegendary
	case marketCap >= MegaThreshold:
		return domain.StageMega
	case marketCap >= EvolvedThreshold:
		return domain.StageEvolved
	default:
		return domain.StageHatchling
	}
}

// TokenStage returns the current stage of a record, recomputed from its
// market cap on every call.
func TokenStage(t domain.TokenRecord) domain.EvolutionStage {
	return EvolutionStageFor(t.MarketCap)
}

// NextStageThreshold returns the market cap needed to reach the next stage.
// The second value is false once the token is Legendary.
func NextStageThreshold(marketCap float64) (float64, bool) {
	switch EvolutionStageFor(marketCap) {
	case domain.StageHatchling:
		return EvolvedThreshold, true
	case domain.StageEvolved:
		return MegaThreshold, true
	case domain.StageMega:
		return LegendaryThreshold, true
	default:
		return 0, false
	}
}

// StageProgress returns how far a market cap has moved from its current
// stage floor toward the next threshold, in [0, 1].
func StageProgress(marketCap float64) float64 {
	if math.IsNaN(marketCap) || marketCap < 0 {
		return 0
	}

	next, ok := NextStageThreshold(marketCap)
	if !ok {
		return 1
	}

	var floor float64
	switch EvolutionStageFor(marketCap) {
	case domain.StageEvolved:
		floor = EvolvedThreshold
	case domain.StageMega:
		floor = MegaThreshold
	}

	p := (marketCap - floor) / (next - floor)
	return math.Min(math.Max(p, 0), 1)
}
