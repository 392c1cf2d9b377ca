package api

import (
	"pokelaunch/internal/domain"
	"pokelaunch/internal/format"
	"pokelaunch/internal/tier"
)

// TokenView is the JSON shape of a token record with derived display fields.
type TokenView struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Ticker         string        `json:"ticker"`
	Description    string        `json:"description,omitempty"`
	Category       string        `json:"category"`
	Rarity         string        `json:"rarity"`
	RarityStars    int           `json:"rarityStars"`
	HP             int           `json:"hp"`
	ImageURL       string        `json:"imageUrl,omitempty"`
	Moves          []domain.Move `json:"moves"`
	MarketCap      float64       `json:"marketCap"`
	CreatorWallet  string        `json:"creatorWallet,omitempty"`
	Holders        int64         `json:"holders"`
	Volume24h      float64       `json:"volume24h"`
	PriceChange24h float64       `json:"priceChange24h"`
	PriceUSD       float64       `json:"priceUsd"`
	MintAddress    string        `json:"mintAddress,omitempty"`
	PumpURL        string        `json:"pumpUrl,omitempty"`
	TwitterLink    string        `json:"twitterLink,omitempty"`
	CreatedAt      int64         `json:"createdAt"`
	UpdatedAt      int64         `json:"updatedAt"`

	EvolutionStage   int     `json:"evolutionStage"`
	StageName        string  `json:"stageName"`
	Popularity       int64   `json:"popularity"`
	MarketCapDisplay string  `json:"marketCapDisplay"`
	PriceDisplay     string  `json:"priceDisplay"`
	ChangeDisplay    string  `json:"priceChangeDisplay"`
	HoldersDisplay   string  `json:"holdersDisplay"`
	NextThreshold    float64 `json:"nextThreshold,omitempty"`
	StageProgress    float64 `json:"stageProgress"`
}

func newTokenView(t domain.TokenRecord) TokenView {
	stage := tier.TokenStage(t)
	moves := t.Moves
	if moves == nil {
		moves = []domain.Move{}
	}
	v := TokenView{
		ID:               t.ID,
		Name:             t.Name,
		Ticker:           t.Ticker,
		Description:      t.Description,
		Category:         string(t.Category),
		Rarity:           string(t.Rarity),
		RarityStars:      t.Rarity.Stars(),
		HP:               t.HP,
		ImageURL:         t.ImageURL,
		Moves:            moves,
		MarketCap:        t.MarketCap,
		CreatorWallet:    t.CreatorWallet,
		Holders:          t.Holders(),
		Volume24h:        t.Volume24h,
		PriceChange24h:   t.PriceChange24h,
		PriceUSD:         t.PriceUSD,
		MintAddress:      t.Mint(),
		PumpURL:          t.PumpURL,
		TwitterLink:      t.TwitterLink,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
		EvolutionStage:   int(stage),
		StageName:        stage.String(),
		Popularity:       tier.TokenPopularity(t),
		MarketCapDisplay: format.FormatMarketCap(t.MarketCap),
		PriceDisplay:     format.FormatPrice(t.PriceUSD),
		ChangeDisplay:    format.FormatPercentChange(t.PriceChange24h),
		HoldersDisplay:   format.FormatCount(t.Holders()),
		StageProgress:    tier.StageProgress(t.MarketCap),
	}
	if next, ok := tier.NextStageThreshold(t.MarketCap); ok {
		v.NextThreshold = next
	}
	return v
}

func newTokenViews(tokens []domain.TokenRecord) []TokenView {
	out := make([]TokenView, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, newTokenView(t))
	}
	return out
}

// CreatorView is one leaderboard row.
type CreatorView struct {
	Rank             int         `json:"rank"`
	Badge            string      `json:"badge"`
	Creator          string      `json:"creator"`
	Tokens           int         `json:"tokens"`
	TotalMarketCap   float64     `json:"totalMarketCap"`
	MarketCapDisplay string      `json:"marketCapDisplay"`
	TotalPopularity  int64       `json:"totalPopularity"`
	RewardAmount     float64     `json:"rewardAmount"`
	RewardDisplay    string      `json:"rewardDisplay"`
	MaxStage         int         `json:"maxStage"`
	TopToken         TokenView   `json:"topToken"`
	Members          []TokenView `json:"members,omitempty"`
}

func newCreatorViews(board []domain.CreatorAggregate, members bool) []CreatorView {
	out := make([]CreatorView, 0, len(board))
	for i := range board {
		agg := &board[i]
		v := CreatorView{
			Rank:             agg.Rank,
			Badge:            string(tier.RankBadge(agg.Rank)),
			Creator:          agg.CreatorIdentity,
			Tokens:           len(agg.Tokens),
			TotalMarketCap:   agg.TotalMarketCap,
			MarketCapDisplay: format.FormatMarketCap(agg.TotalMarketCap),
			TotalPopularity:  agg.TotalPopularity,
			RewardAmount:     agg.RewardAmount,
			RewardDisplay:    format.FormatSOL(agg.RewardAmount),
			MaxStage:         int(agg.MaxStage(tier.EvolutionStageFor)),
			TopToken:         newTokenView(agg.TopToken),
		}
		if members {
			v.Members = newTokenViews(agg.Tokens)
		}
		out = append(out, v)
	}
	return out
}

// TemplateView is the JSON shape of a card template.
type TemplateView struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Rarity      string        `json:"rarity"`
	RarityStars int           `json:"rarityStars"`
	HP          int           `json:"hp"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	BaseMoves   []domain.Move `json:"baseMoves"`
}

func newTemplateViews(tpls []domain.Template) []TemplateView {
	out := make([]TemplateView, 0, len(tpls))
	for _, t := range tpls {
		out = append(out, TemplateView{
			ID:          t.ID,
			Name:        t.Name,
			Category:    string(t.Category),
			Rarity:      string(t.Rarity),
			RarityStars: t.Rarity.Stars(),
			HP:          t.HP,
			ImageURL:    t.ImageURL,
			BaseMoves:   t.BaseMoves,
		})
	}
	return out
}
