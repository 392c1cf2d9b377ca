// Package selection picks and orders token views for browsing.
package selection

import (
	"slices"
	"sort"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/tier"
)

// SelectTokens returns a new slice holding the view of all selected by
// filter. The input is never reordered.
//
//   - all, new: newest first
//   - trending: highest market cap first, invalid caps as 0
//   - legendary: stage 4 only, input order
//   - a category key: that category only, input order
//   - anything else: every record, input order
//
// Keys match case-insensitively; an empty key means all.
func SelectTokens(all []domain.TokenRecord, filter domain.FilterKey) []domain.TokenRecord {
	filter, _ = domain.ParseFilterKey(string(filter))

	switch filter {
	case domain.FilterAll, domain.FilterNew:
		out := clone(all)
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt > out[j].CreatedAt
		})
		return out

	case domain.FilterTrending:
		out := clone(all)
		sort.SliceStable(out, func(i, j int) bool {
			return tier.SafeMarketCap(out[i].MarketCap) > tier.SafeMarketCap(out[j].MarketCap)
		})
		return out

	case domain.FilterLegendary:
		return keep(all, func(t *domain.TokenRecord) bool {
			return tier.TokenStage(*t) == domain.StageLegendary
		})
	}

	if c, ok := filter.Category(); ok {
		return keep(all, func(t *domain.TokenRecord) bool {
			return t.Category == c
		})
	}

	return clone(all)
}

// Select applies SelectTokens to a raw filter string and reports whether the
// key was recognized. Unknown keys still yield the pass-through view.
func Select(all []domain.TokenRecord, rawFilter string) ([]domain.TokenRecord, bool) {
	key, known := domain.ParseFilterKey(rawFilter)
	return SelectTokens(all, key), known
}

func clone(all []domain.TokenRecord) []domain.TokenRecord {
	out := slices.Clone(all)
	if out == nil {
		out = []domain.TokenRecord{}
	}
	return out
}

func keep(all []domain.TokenRecord, pred func(*domain.TokenRecord) bool) []domain.TokenRecord {
	out := make([]domain.TokenRecord, 0, len(all))
	for i := range all {
		if pred(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}
