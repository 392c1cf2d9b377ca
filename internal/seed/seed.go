// Package seed provides deterministic demo data.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/solana"
	"pokelaunch/internal/storage"
	"pokelaunch/internal/tier"
)

// DefaultTokenCount is the number of demo records.
const DefaultTokenCount = 24

// DefaultCreatorCount is how many demo wallets share the records.
const DefaultCreatorCount = 8

const placeholderImage = "/placeholder.svg"

var monsterNames = []string{
	"Flamezard", "Aquadrake", "Voltspark", "Leafmaw", "Shadowfang", "Memechamp",
	"Infernotail", "Tidalwave", "Thunderclaw", "Vinelash", "Voidwalker", "Gigapepe",
	"Blazewing", "Frostbite", "Staticshock", "Thornback", "Nightshade", "Dankmaster",
	"Pyrodragon", "Icebreaker", "Zapstrike", "Florahorn", "Phantomsteel", "Lolking",
}

var moveNames = map[domain.Category][]string{
	domain.CategoryFire:     {"Flame Burst", "Inferno Blast", "Burn Strike", "Fire Tornado", "Magma Surge"},
	domain.CategoryWater:    {"Hydro Pump", "Tidal Wave", "Aqua Jet", "Ice Beam", "Tsunami Crash"},
	domain.CategoryElectric: {"Thunder Shock", "Volt Tackle", "Lightning Strike", "Spark Storm", "Electro Ball"},
	domain.CategoryGrass:    {"Vine Whip", "Solar Beam", "Leaf Blade", "Nature Power", "Root Crush"},
	domain.CategoryShadow:   {"Dark Pulse", "Shadow Ball", "Nightmare", "Void Strike", "Soul Drain"},
	domain.CategoryMeme:     {"Dank Attack", "HODL Power", "Moon Shot", "Diamond Hands", "Rug Pull"},
}

// Tokens returns n demo records generated from seed. Creation times fall in
// the week before now. The same inputs always produce the same records.
func Tokens(seed int64, n int, now time.Time) ([]domain.TokenRecord, error) {
	rng := rand.New(rand.NewSource(seed))

	wallets := make([]string, DefaultCreatorCount)
	for i := range wallets {
		w, err := solana.NewWalletAddress(rng)
		if err != nil {
			return nil, err
		}
		wallets[i] = w
	}

	const week = 7 * 24 * time.Hour
	out := make([]domain.TokenRecord, 0, n)
	for i := 0; i < n; i++ {
		category := domain.Categories[rng.Intn(len(domain.Categories))]
		rarity := domain.Rarities[rng.Intn(len(domain.Rarities))]
		name := monsterNames[i%len(monsterNames)]
		marketCap := float64(rng.Intn(1_500_000) + 1000)
		holders := int64(rng.Intn(5000) + 50)
		created := now.Add(-time.Duration(rng.Int63n(int64(week))))
		id := fmt.Sprintf("monster-%d", i)

		out = append(out, domain.TokenRecord{
			ID:     id,
			Name:   name,
			Ticker: strings.ToUpper(name[:4]),
			Description: fmt.Sprintf("A powerful %s type monster with incredible abilities. Born from the blockchain, destined for the moon.",
				strings.ToLower(string(category))),
			Category:       category,
			Rarity:         rarity,
			HP:             rng.Intn(150) + 50,
			ImageURL:       placeholderImage,
			Moves:          []domain.Move{move(rng, category), move(rng, category)},
			MarketCap:      marketCap,
			CreatorWallet:  wallets[rng.Intn(len(wallets))],
			HolderCount:    &holders,
			Volume24h:      float64(rng.Intn(100_000) + 1000),
			PriceChange24h: (rng.Float64() - 0.3) * 200,
			PriceUSD:       marketCap / 1_000_000_000,
			PumpURL:        LaunchURL(id),
			CreatedAt:      created.UnixMilli(),
			UpdatedAt:      created.UnixMilli(),
		})
	}
	return out, nil
}

func move(rng *rand.Rand, c domain.Category) domain.Move {
	names := moveNames[c]
	return domain.Move{
		Name:   names[rng.Intn(len(names))],
		Damage: rng.Intn(80) + 20,
	}
}

// LaunchURL is the pump.fun page of a record without a mint.
func LaunchURL(id string) string {
	return "https://pump.fun/launch/" + id
}

// Templates returns the starter card templates.
func Templates() []domain.Template {
	tpl := func(id, name string, c domain.Category, r domain.Rarity, hp int, moves ...domain.Move) domain.Template {
		return domain.Template{ID: id, Name: name, Category: c, Rarity: r, HP: hp, ImageURL: placeholderImage, BaseMoves: moves}
	}
	m := func(name string, dmg int) domain.Move { return domain.Move{Name: name, Damage: dmg} }

	return []domain.Template{
		tpl("template-1", "Blazing Phoenix", domain.CategoryFire, domain.RarityEpic, 160, m("Phoenix Rise", 90), m("Flame Tornado", 70)),
		tpl("template-2", "Ocean Leviathan", domain.CategoryWater, domain.RarityRare, 140, m("Deep Dive", 80), m("Whirlpool", 65)),
		tpl("template-3", "Thunder Beast", domain.CategoryElectric, domain.RarityLegendary, 180, m("Gigavolt", 100), m("Chain Lightning", 55)),
		tpl("template-4", "Ancient Treant", domain.CategoryGrass, domain.RarityRare, 150, m("Root Prison", 60), m("Nature Wrath", 85)),
		tpl("template-5", "Void Reaper", domain.CategoryShadow, domain.RarityEpic, 130, m("Soul Harvest", 95), m("Dark Matter", 75)),
		tpl("template-6", "Pepe Supreme", domain.CategoryMeme, domain.RarityLegendary, 169, m("Rare Pepe", 69), m("Kek Beam", 42)),
		tpl("template-7", "Inferno Drake", domain.CategoryFire, domain.RarityUncommon, 120, m("Dragon Breath", 85), m("Lava Pool", 60)),
		tpl("template-8", "Frost Serpent", domain.CategoryWater, domain.RarityRare, 135, m("Ice Fang", 70), m("Blizzard", 80)),
		tpl("template-9", "Storm Falcon", domain.CategoryElectric, domain.RarityUncommon, 110, m("Sky Strike", 75), m("Thunder Dive", 90)),
		tpl("template-10", "Mushroom King", domain.CategoryGrass, domain.RarityCommon, 100, m("Spore Cloud", 50), m("Toxic Bloom", 70)),
		tpl("template-11", "Phantom Knight", domain.CategoryShadow, domain.RarityRare, 145, m("Ghost Slash", 80), m("Shadow Step", 60)),
		tpl("template-12", "Doge Warrior", domain.CategoryMeme, domain.RarityEpic, 140, m("Much Attack", 77), m("Very Power", 55)),
	}
}

// Stats reports what Load inserted.
type Stats struct {
	Tokens    int
	Templates int
	Skipped   int // already present
}

// Load inserts demo tokens and all templates. Records that already exist are
// skipped, so Load can run against a populated store.
func Load(ctx context.Context, tokens storage.TokenStore, templates storage.TemplateStore, records []domain.TokenRecord) (Stats, error) {
	var st Stats
	for i := range records {
		err := tokens.Append(ctx, &records[i])
		switch {
		case err == nil:
			st.Tokens++
		case errors.Is(err, storage.ErrDuplicateKey):
			st.Skipped++
		default:
			return st, fmt.Errorf("seed token %s: %w", records[i].ID, err)
		}
	}
	if templates == nil {
		return st, nil
	}
	for _, t := range Templates() {
		t := t
		err := templates.Insert(ctx, &t)
		switch {
		case err == nil:
			st.Templates++
		case errors.Is(err, storage.ErrDuplicateKey):
			st.Skipped++
		default:
			return st, fmt.Errorf("seed template %s: %w", t.ID, err)
		}
	}
	return st, nil
}

// StageCounts tallies records per evolution stage.
func StageCounts(records []domain.TokenRecord) map[domain.EvolutionStage]int {
	out := make(map[domain.EvolutionStage]int, 4)
	for i := range records {
		out[tier.TokenStage(records[i])]++
	}
	return out
}
