package leaderboard

import (
	"slices"
	"sort"
	"strings"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/tier"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection parses "asc" or "desc"; anything else is Desc.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), string(Asc)) {
		return Asc
	}
	return Desc
}

// Toggle flips the direction.
func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

// CreatorField is a column a creator leaderboard can be re-sorted by.
type CreatorField string

const (
	CreatorByMarketCap      CreatorField = "marketCap"
	CreatorByEvolutionStage CreatorField = "evolutionStage"
	CreatorByPopularity     CreatorField = "popularity"
	CreatorByRewards        CreatorField = "rewards"
)

// ParseCreatorField resolves a field name case-insensitively. Unknown names
// fall back to popularity, the ranking order.
func ParseCreatorField(s string) CreatorField {
	for _, f := range []CreatorField{CreatorByMarketCap, CreatorByEvolutionStage, CreatorByPopularity, CreatorByRewards} {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f
		}
	}
	return CreatorByPopularity
}

// SortCreators returns a re-sorted copy of a built leaderboard. Ranks and
// rewards are left as assigned by BuildCreatorLeaderboard. Equal keys keep
// their current relative order.
func SortCreators(aggs []domain.CreatorAggregate, field CreatorField, dir Direction) []domain.CreatorAggregate {
	out := slices.Clone(aggs)
	if out == nil {
		out = []domain.CreatorAggregate{}
	}

	key := func(a *domain.CreatorAggregate) float64 {
		switch field {
		case CreatorByMarketCap:
			return tier.SafeMarketCap(a.TotalMarketCap)
		case CreatorByEvolutionStage:
			return float64(a.MaxStage(tier.EvolutionStageFor))
		case CreatorByRewards:
			return a.RewardAmount
		default:
			return float64(a.TotalPopularity)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := key(&out[i]), key(&out[j])
		if dir == Asc {
			return ki < kj
		}
		return ki > kj
	})
	return out
}

// TokenField is a column the token leaderboard can be sorted by.
type TokenField string

const (
	TokenByMarketCap      TokenField = "marketCap"
	TokenByEvolutionStage TokenField = "evolutionStage"
	TokenByCreatedAt      TokenField = "createdAt"
)

// ParseTokenField resolves a field name case-insensitively. Unknown names
// fall back to market cap.
func ParseTokenField(s string) TokenField {
	for _, f := range []TokenField{TokenByMarketCap, TokenByEvolutionStage, TokenByCreatedAt} {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f
		}
	}
	return TokenByMarketCap
}

// SortTokens returns a sorted copy of tokens. Equal keys keep input order;
// invalid market caps sort as 0.
func SortTokens(tokens []domain.TokenRecord, field TokenField, dir Direction) []domain.TokenRecord {
	out := slices.Clone(tokens)
	if out == nil {
		out = []domain.TokenRecord{}
	}

	key := func(t *domain.TokenRecord) float64 {
		switch field {
		case TokenByEvolutionStage:
			return float64(tier.TokenStage(*t))
		case TokenByCreatedAt:
			return float64(t.CreatedAt)
		default:
			return tier.SafeMarketCap(t.MarketCap)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := key(&out[i]), key(&out[j])
		if dir == Asc {
			return ki < kj
		}
		return ki > kj
	})
	return out
}
