package reporting

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/seed"
	"pokelaunch/internal/storage/memory"
)

var fixedTime = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func tok(id, wallet string, c domain.Category, marketCap float64, created int64) domain.TokenRecord {
	return domain.TokenRecord{
		ID:            id,
		Name:          strings.ToUpper(id[:1]) + id[1:],
		Ticker:        strings.ToUpper(id),
		Category:      c,
		Rarity:        domain.RarityCommon,
		MarketCap:     marketCap,
		CreatorWallet: wallet,
		CreatedAt:     created,
	}
}

func scenario() []domain.TokenRecord {
	return []domain.TokenRecord{
		tok("a1", "creatorA", domain.CategoryFire, 10, 1000),
		tok("b1", "creatorB", domain.CategoryWater, 300_000, 2000),
		tok("a2", "creatorA", domain.CategoryFire, 2_000_000, 3000),
		tok("a3", "creatorA", domain.CategoryMeme, 500, 4000),
		tok("b2", "creatorB", domain.CategoryWater, 300_000, 5000),
	}
}

func TestBuild_Scenario(t *testing.T) {
	r := Build(scenario(), 3, fixedTime)

	assert.Equal(t, 5, r.Summary.Tokens)
	assert.Equal(t, 2, r.Summary.Creators)
	assert.Equal(t, 2_600_510.0, r.Summary.TotalMarketCap)
	assert.InDelta(t, 0.868, r.Summary.RewardPool, 1e-9)
	assert.Equal(t, int64(1000), r.Summary.OldestCreated)
	assert.Equal(t, int64(5000), r.Summary.NewestCreated)

	require.Len(t, r.Creators, 2)
	assert.Equal(t, CreatorRow{
		Rank: 1, Badge: "Champion", Creator: "creatorB", Tokens: 2,
		TotalMarketCap: 600_000, TotalPopularity: 260, RewardAmount: 0.468,
		MaxStage: 3, TopTokenName: "B1",
	}, r.Creators[0])
	assert.Equal(t, "Elite", r.Creators[1].Badge)
	assert.Equal(t, 4, r.Creators[1].MaxStage)

	require.Len(t, r.TopTokens, 3)
	assert.Equal(t, []string{"a2", "b1", "b2"}, []string{r.TopTokens[0].ID, r.TopTokens[1].ID, r.TopTokens[2].ID})
	assert.Equal(t, "Legendary", r.TopTokens[0].StageName)

	assert.Equal(t, CategoryRow{Category: "Fire", Tokens: 2, TotalMarketCap: 2_000_010, Legendary: 1}, r.Categories[0])
	assert.Equal(t, CategoryRow{Category: "Grass"}, r.Categories[3])

	assert.Equal(t, []StageRow{
		{1, "Hatchling", 2},
		{2, "Evolved", 0},
		{3, "Mega", 2},
		{4, "Legendary", 1},
	}, r.Stages)
}

func TestGenerate_Deterministic(t *testing.T) {
	ctx := context.Background()
	store := memory.NewTokenStore()
	records, err := seed.Tokens(9, seed.DefaultTokenCount, fixedTime)
	require.NoError(t, err)
	_, err = seed.Load(ctx, store, nil, records)
	require.NoError(t, err)

	gen := NewGenerator(store).WithClock(func() time.Time { return fixedTime }).WithTopN(5)

	first, err := gen.Generate(ctx)
	require.NoError(t, err)
	for run := 0; run < 3; run++ {
		again, err := gen.Generate(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", run, diff)
		}
	}

	assert.True(t, first.GeneratedAt.Equal(fixedTime))
	assert.Len(t, first.TopTokens, 5)
	assert.Equal(t, RenderMarkdown(first), RenderMarkdown(first))
}

func TestGenerate_Empty(t *testing.T) {
	r, err := NewGenerator(memory.NewTokenStore()).Generate(context.Background())
	require.NoError(t, err)

	md := RenderMarkdown(r)
	assert.Contains(t, md, "No creators yet.")
	assert.Contains(t, md, "No tokens launched.")
	assert.NotContains(t, md, "First Launch")
	assert.Len(t, r.Stages, 4)
}

func TestRenderMarkdown_Format(t *testing.T) {
	md := RenderMarkdown(Build(scenario(), 10, fixedTime))

	for _, section := range []string{
		"# Creator Leaderboard",
		"Generated: 2024-01-15T12:00:00Z",
		"## Summary",
		"## Creators",
		"## Top Tokens",
		"## Categories",
		"## Evolution Stages",
	} {
		assert.Contains(t, md, section)
	}
	assert.Contains(t, md, "| Reward Pool | 0.868 SOL |")
	assert.Contains(t, md, "| 1 | Champion | creatorB | 2 | $600.0K | 260 | 0.468 SOL | 3 | B1 |")
	assert.Contains(t, md, "| Total Market Cap | $2.60M |")
}

func TestShortWallet(t *testing.T) {
	assert.Equal(t, "Unknown", shortWallet("Unknown"))
	assert.Equal(t, "7xKX...gAsU", shortWallet("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"))
}

func TestRenderCSV(t *testing.T) {
	r := Build(scenario(), 10, fixedTime)
	r.TopTokens[0].Name = "Comma, Name"

	creators, err := RenderCreatorsCSV(r.Creators)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(creators), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "rank,badge,creator,tokens,total_market_cap,total_popularity,reward_sol,max_stage,top_token", lines[0])
	assert.Equal(t, "1,Champion,creatorB,2,600000.00,260,0.468,3,B1", lines[1])

	tokens, err := RenderTokensCSV(r.TopTokens)
	require.NoError(t, err)
	assert.Contains(t, tokens, `a2,"Comma, Name",A2,Fire,4,2000000.00,`)
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := WriteFiles(dir, Build(scenario(), 10, fixedTime))
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, name := range []string{MarkdownFile, CreatorsCSVFile, TokensCSVFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.NotEmpty(t, data, name)
	}
}
