package domain

import "strings"

// FilterKey selects a view over the token collection.
type FilterKey string

const (
	FilterAll       FilterKey = "all"
	FilterNew       FilterKey = "new"
	FilterTrending  FilterKey = "trending"
	FilterLegendary FilterKey = "legendary"
)

// filterKeys is the exhaustive table of accepted keys. Category keys map to
// their canonical label; view keys map to the empty category.
var filterKeys = map[string]struct {
	key      FilterKey
	category Category
}{
	"all":       {FilterAll, ""},
	"new":       {FilterNew, ""},
	"trending":  {FilterTrending, ""},
	"legendary": {FilterLegendary, ""},
	"fire":      {FilterKey("fire"), CategoryFire},
	"water":     {FilterKey("water"), CategoryWater},
	"electric":  {FilterKey("electric"), CategoryElectric},
	"grass":     {FilterKey("grass"), CategoryGrass},
	"shadow":    {FilterKey("shadow"), CategoryShadow},
	"meme":      {FilterKey("meme"), CategoryMeme},
}

// ParseFilterKey normalizes a raw filter string. The second return value is
// false for keys outside the table; the returned key is then passed through
// unchanged so callers can apply the pass-through default.
func ParseFilterKey(raw string) (FilterKey, bool) {
	k := strings.ToLower(strings.TrimSpace(raw))
	if k == "" {
		return FilterAll, true
	}
	entry, ok := filterKeys[k]
	if !ok {
		return FilterKey(raw), false
	}
	return entry.key, true
}

// Category returns the category this key filters on, if any.
func (f FilterKey) Category() (Category, bool) {
	entry, ok := filterKeys[strings.ToLower(string(f))]
	if !ok || entry.category == "" {
		return "", false
	}
	return entry.category, true
}

// IsKnown reports whether the key is in the filter table.
func (f FilterKey) IsKnown() bool {
	_, ok := filterKeys[strings.ToLower(string(f))]
	return ok
}

// FilterKeys returns every accepted key in display order.
func FilterKeys() []FilterKey {
	keys := []FilterKey{FilterAll, FilterNew, FilterTrending, FilterLegendary}
	for _, c := range Categories {
		keys = append(keys, FilterKey(c.Key()))
	}
	return keys
}
