// Package leaderboard builds ranked creator rollups and sorted token views
// from a snapshot of token records.
package leaderboard

import (
	"sort"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/tier"
)

// BuildCreatorLeaderboard groups tokens by creator wallet and ranks the
// groups by total popularity.
//
// Records with an empty wallet are grouped under domain.UnknownCreator.
// Invalid market caps count as 0. Groups
// keep the order in which their creator was first seen, which is also the
// tie-break for equal popularity. Within a group TopToken is the first
// member with the highest market cap. The input slice is not modified.
func BuildCreatorLeaderboard(tokens []domain.TokenRecord) []domain.CreatorAggregate {
	if len(tokens) == 0 {
		return []domain.CreatorAggregate{}
	}

	index := make(map[string]int)
	var groups []domain.CreatorAggregate

	for _, tok := range tokens {
		identity := creatorKey(tok.CreatorWallet)

		i, ok := index[identity]
		if !ok {
			i = len(groups)
			index[identity] = i
			groups = append(groups, domain.CreatorAggregate{
				CreatorIdentity: identity,
				TopToken:        tok,
			})
		}

		g := &groups[i]
		g.Tokens = append(g.Tokens, tok)
		g.TotalMarketCap += tier.SafeMarketCap(tok.MarketCap)
		g.TotalPopularity += tier.TokenPopularity(tok)
		if tier.SafeMarketCap(tok.MarketCap) > tier.SafeMarketCap(g.TopToken.MarketCap) {
			g.TopToken = tok
		}
	}

	sort.SliceStable(groups, func(a, b int) bool {
		return groups[a].TotalPopularity > groups[b].TotalPopularity
	})

	for i := range groups {
		groups[i].Rank = i + 1
		groups[i].RewardAmount = tier.CalculateRewards(float64(groups[i].TotalPopularity), groups[i].Rank)
	}

	return groups
}

func creatorKey(wallet string) string {
	if wallet == "" {
		return domain.UnknownCreator
	}
	return wallet
}

// Summary describes a built leaderboard as a whole.
type Summary struct {
	Creators       int
	Tokens         int
	TotalMarketCap float64
	RewardPool     float64 // sum of all reward amounts (SOL)
}

// Summarize totals a built leaderboard.
func Summarize(aggs []domain.CreatorAggregate) Summary {
	var s Summary
	s.Creators = len(aggs)
	for i := range aggs {
		s.Tokens += len(aggs[i].Tokens)
		s.TotalMarketCap += aggs[i].TotalMarketCap
		s.RewardPool += aggs[i].RewardAmount
	}
	return s
}
