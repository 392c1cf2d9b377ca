package marketdata

import "math"

// DefaultTokenSupply is the fixed supply of a pump.fun launch.
const DefaultTokenSupply = 1_000_000_000

// SimulatedFloor is the lowest market cap the demo walk can reach.
const SimulatedFloor = 1000

// RandomWalk moves a demo market cap by r, a uniform sample in [0, 1).
// The step is (r-0.4)*10 percent, so the walk drifts upward. It returns the
// new market cap and the step as a percent change.
func RandomWalk(marketCap, r float64) (float64, float64) {
	if math.IsNaN(marketCap) || math.IsInf(marketCap, 0) || marketCap < 0 {
		marketCap = 0
	}
	change := (r - 0.4) * 0.1
	return math.Max(SimulatedFloor, marketCap*(1+change)), change * 100
}

// MarketCapFromPrice derives a market cap from a unit price and supply.
// A non-positive supply uses DefaultTokenSupply.
func MarketCapFromPrice(priceUSD, supply float64) float64 {
	if supply <= 0 {
		supply = DefaultTokenSupply
	}
	if priceUSD <= 0 || math.IsNaN(priceUSD) {
		return 0
	}
	return priceUSD * supply
}
