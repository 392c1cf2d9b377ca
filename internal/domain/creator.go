package domain

// UnknownCreator is the grouping key for records without a creator wallet.
const UnknownCreator = "Unknown"

// CreatorAggregate is a per-creator rollup computed for one leaderboard
// build. It is never persisted.
type CreatorAggregate struct {
	CreatorIdentity string        // wallet, or UnknownCreator
	Tokens          []TokenRecord // members in input order
	TotalMarketCap  float64       // sum of member market caps
	TotalPopularity int64         // sum of member popularity scores
	TopToken        TokenRecord   // member with the highest market cap
	Rank            int           // 1-based, by TotalPopularity desc
	RewardAmount    float64       // SOL, 3 decimals
}

// MaxStage returns the highest evolution stage among the members using the
// supplied classifier.
func (a *CreatorAggregate) MaxStage(classify func(marketCap float64) EvolutionStage) EvolutionStage {
	best := MinStage
	for i := range a.Tokens {
		if s := classify(a.Tokens[i].MarketCap); s > best {
			best = s
		}
	}
	return best
}

// MarketSnapshot is a point-in-time market reading for a token.
// Corresponds to market_snapshots table in ClickHouse.
type MarketSnapshot struct {
	TokenID     string  // FK to tokens
	TimestampMs int64   // Unix timestamp in milliseconds
	MarketCap   float64 // fiat-equivalent valuation
	PriceUSD    float64 // unit price
	Volume24h   float64 // 24h volume
	Holders     int64   // holder count (0 if unknown)
	Stage       EvolutionStage
}
