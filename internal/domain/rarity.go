package domain

import "strings"

// Rarity is the display tier tag of a card. It is ordinal but independent
// of the evolution stage.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

// Rarities lists every rarity from lowest to highest.
var Rarities = []Rarity{
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityEpic,
	RarityLegendary,
}

var rarityStars = map[Rarity]int{
	RarityCommon:    1,
	RarityUncommon:  2,
	RarityRare:      3,
	RarityEpic:      4,
	RarityLegendary: 5,
}

// String returns the string representation of Rarity.
func (r Rarity) String() string {
	return string(r)
}

// IsValid checks if the rarity is one of the fixed labels.
func (r Rarity) IsValid() bool {
	_, ok := rarityStars[r]
	return ok
}

// Stars returns the star count shown on the card (1..5). Unknown rarities get 1.
func (r Rarity) Stars() int {
	if n, ok := rarityStars[r]; ok {
		return n
	}
	return 1
}

// ParseRarity resolves a label case-insensitively.
func ParseRarity(s string) (Rarity, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Rarities {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// RarityOrDefault resolves a label, falling back to Common.
func RarityOrDefault(s string) Rarity {
	if r, ok := ParseRarity(s); ok {
		return r
	}
	return RarityCommon
}
