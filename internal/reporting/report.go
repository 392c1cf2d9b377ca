package reporting

import "time"

// Report is a point-in-time leaderboard report.
type Report struct {
	GeneratedAt time.Time

	Summary SummarySection

	// Creators in rank order.
	Creators []CreatorRow

	// TopTokens by market cap, at most the generator's top N.
	TopTokens []TokenRow

	// Categories in display order.
	Categories []CategoryRow

	// Stages from Hatchling to Legendary.
	Stages []StageRow
}

// SummarySection totals the collection.
type SummarySection struct {
	Tokens         int
	Creators       int
	TotalMarketCap float64
	RewardPool     float64 // SOL
	OldestCreated  int64   // Unix ms, 0 when empty
	NewestCreated  int64   // Unix ms, 0 when empty
}

// CreatorRow is one ranked creator.
type CreatorRow struct {
	Rank            int
	Badge           string
	Creator         string
	Tokens          int
	TotalMarketCap  float64
	TotalPopularity int64
	RewardAmount    float64
	MaxStage        int
	TopTokenName    string
}

// TokenRow is one token in the market cap table.
type TokenRow struct {
	ID         string
	Name       string
	Ticker     string
	Category   string
	Stage      int
	StageName  string
	MarketCap  float64
	Popularity int64
	Creator    string
}

// CategoryRow aggregates one category.
type CategoryRow struct {
	Category       string
	Tokens         int
	TotalMarketCap float64
	Legendary      int
}

// StageRow counts tokens in one evolution stage.
type StageRow struct {
	Stage int
	Name  string
	Count int
}
