package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRecord() TokenRecord {
	return TokenRecord{
		ID:        "tok-1",
		Name:      "Flamezard",
		Ticker:    "FLAM",
		Category:  CategoryFire,
		Rarity:    RarityRare,
		MarketCap: 12000,
		CreatedAt: 1700000000000,
	}
}

func TestTokenRecord_Validate(t *testing.T) {
	negative := int64(-1)

	tests := []struct {
		name    string
		mutate  func(r *TokenRecord)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *TokenRecord) {}},
		{name: "empty id", mutate: func(r *TokenRecord) { r.ID = " " }, wantErr: true},
		{name: "empty name", mutate: func(r *TokenRecord) { r.Name = "" }, wantErr: true},
		{name: "lowercase category", mutate: func(r *TokenRecord) { r.Category = "fire" }, wantErr: true},
		{name: "unknown rarity", mutate: func(r *TokenRecord) { r.Rarity = "Mythic" }, wantErr: true},
		{name: "negative market cap", mutate: func(r *TokenRecord) { r.MarketCap = -1 }, wantErr: true},
		{name: "negative holders", mutate: func(r *TokenRecord) { r.HolderCount = &negative }, wantErr: true},
		{name: "missing created_at", mutate: func(r *TokenRecord) { r.CreatedAt = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidRecord), "expected ErrInvalidRecord, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTokenRecord_HoldersUnknownIsZero(t *testing.T) {
	r := validRecord()
	assert.Equal(t, int64(0), r.Holders())

	n := int64(42)
	r.HolderCount = &n
	assert.Equal(t, int64(42), r.Holders())
}

func TestCategory_ParseIsCaseInsensitive(t *testing.T) {
	for _, raw := range []string{"fire", "FIRE", " Fire "} {
		c, ok := ParseCategory(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, CategoryFire, c, raw)
	}

	_, ok := ParseCategory("plasma")
	assert.False(t, ok)
	assert.Equal(t, CategoryMeme, CategoryOrDefault("plasma"))
}

func TestCategory_IsValidIsCaseSensitive(t *testing.T) {
	assert.True(t, CategoryElectric.IsValid())
	assert.False(t, Category("electric").IsValid())
	assert.False(t, Category("").IsValid())
}

func TestRarity_Stars(t *testing.T) {
	for i, r := range Rarities {
		assert.Equal(t, i+1, r.Stars(), r.String())
	}
	assert.Equal(t, 1, Rarity("Mythic").Stars())
	assert.Equal(t, RarityCommon, RarityOrDefault("Mythic"))
	assert.Equal(t, RarityEpic, RarityOrDefault("epic"))
}

func TestEvolutionStage_Clamp(t *testing.T) {
	assert.Equal(t, StageHatchling, EvolutionStage(0).Clamp())
	assert.Equal(t, StageLegendary, EvolutionStage(9).Clamp())
	assert.Equal(t, StageMega, StageMega.Clamp())
	assert.Equal(t, "Mega", StageMega.String())
}

func TestParseFilterKey(t *testing.T) {
	tests := []struct {
		raw      string
		want     FilterKey
		known    bool
		category Category
	}{
		{raw: "", want: FilterAll, known: true},
		{raw: "ALL", want: FilterAll, known: true},
		{raw: "new", want: FilterNew, known: true},
		{raw: "Trending", want: FilterTrending, known: true},
		{raw: "legendary", want: FilterLegendary, known: true},
		{raw: "Water", want: FilterKey("water"), known: true, category: CategoryWater},
		{raw: "shadow", want: FilterKey("shadow"), known: true, category: CategoryShadow},
		{raw: "plasma", want: FilterKey("plasma"), known: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, known := ParseFilterKey(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)

			c, ok := got.Category()
			assert.Equal(t, tt.category != "", ok)
			assert.Equal(t, tt.category, c)
		})
	}
}

func TestFilterKeys_CoversAllCategories(t *testing.T) {
	keys := FilterKeys()
	assert.Len(t, keys, 4+len(Categories))
	for _, k := range keys {
		assert.True(t, k.IsKnown(), string(k))
	}
}

func TestNewTokenID_Unique(t *testing.T) {
	a, b := NewTokenID(), NewTokenID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
