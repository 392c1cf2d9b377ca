package reporting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/leaderboard"
	"pokelaunch/internal/storage"
	"pokelaunch/internal/tier"
)

// DefaultTopN is the default length of the top token table.
const DefaultTopN = 10

// Output file names written by WriteFiles.
const (
	MarkdownFile    = "LEADERBOARD.md"
	CreatorsCSVFile = "creators.csv"
	TokensCSVFile   = "tokens.csv"
)

// Generator produces reports from stored data.
type Generator struct {
	tokenStore storage.TokenStore
	topN       int
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(tokenStore storage.TokenStore) *Generator {
	return &Generator{
		tokenStore: tokenStore,
		topN:       DefaultTopN,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithTopN sets the length of the top token table. Values below 1 keep the default.
func (g *Generator) WithTopN(n int) *Generator {
	if n > 0 {
		g.topN = n
	}
	return g
}

// Generate loads a snapshot of all tokens and builds the report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	tokens, err := g.tokenStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	return Build(tokens, g.topN, g.now()), nil
}

// Build computes a report from a token snapshot.
func Build(tokens []domain.TokenRecord, topN int, at time.Time) *Report {
	board := leaderboard.BuildCreatorLeaderboard(tokens)
	s := leaderboard.Summarize(board)

	r := &Report{
		GeneratedAt: at,
		Summary: SummarySection{
			Tokens:         s.Tokens,
			Creators:       s.Creators,
			TotalMarketCap: s.TotalMarketCap,
			RewardPool:     s.RewardPool,
		},
		Creators:   make([]CreatorRow, 0, len(board)),
		Categories: make([]CategoryRow, 0, len(domain.Categories)),
	}

	for i, t := range tokens {
		if i == 0 || t.CreatedAt < r.Summary.OldestCreated {
			r.Summary.OldestCreated = t.CreatedAt
		}
		if t.CreatedAt > r.Summary.NewestCreated {
			r.Summary.NewestCreated = t.CreatedAt
		}
	}

	for i := range board {
		agg := &board[i]
		r.Creators = append(r.Creators, CreatorRow{
			Rank:            agg.Rank,
			Badge:           string(tier.RankBadge(agg.Rank)),
			Creator:         agg.CreatorIdentity,
			Tokens:          len(agg.Tokens),
			TotalMarketCap:  agg.TotalMarketCap,
			TotalPopularity: agg.TotalPopularity,
			RewardAmount:    agg.RewardAmount,
			MaxStage:        int(agg.MaxStage(tier.EvolutionStageFor)),
			TopTokenName:    agg.TopToken.Name,
		})
	}

	top := leaderboard.SortTokens(tokens, leaderboard.TokenByMarketCap, leaderboard.Desc)
	if len(top) > topN {
		top = top[:topN]
	}
	r.TopTokens = make([]TokenRow, 0, len(top))
	for _, t := range top {
		stage := tier.TokenStage(t)
		creator := t.CreatorWallet
		if creator == "" {
			creator = domain.UnknownCreator
		}
		r.TopTokens = append(r.TopTokens, TokenRow{
			ID:         t.ID,
			Name:       t.Name,
			Ticker:     t.Ticker,
			Category:   string(t.Category),
			Stage:      int(stage),
			StageName:  stage.String(),
			MarketCap:  t.MarketCap,
			Popularity: tier.TokenPopularity(t),
			Creator:    creator,
		})
	}

	byCategory := make(map[domain.Category]*CategoryRow, len(domain.Categories))
	for _, c := range domain.Categories {
		r.Categories = append(r.Categories, CategoryRow{Category: string(c)})
	}
	for i := range r.Categories {
		byCategory[domain.Category(r.Categories[i].Category)] = &r.Categories[i]
	}
	stageCounts := make(map[domain.EvolutionStage]int, 4)
	for _, t := range tokens {
		stage := tier.TokenStage(t)
		stageCounts[stage]++
		row, ok := byCategory[t.Category]
		if !ok {
			continue
		}
		row.Tokens++
		row.TotalMarketCap += tier.SafeMarketCap(t.MarketCap)
		if stage == domain.StageLegendary {
			row.Legendary++
		}
	}

	for s := domain.MinStage; s <= domain.MaxStage; s++ {
		r.Stages = append(r.Stages, StageRow{Stage: int(s), Name: s.String(), Count: stageCounts[s]})
	}

	return r
}

// WriteFiles renders r into dir as Markdown and CSV files and returns the
// written paths.
func WriteFiles(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	creatorsCSV, err := RenderCreatorsCSV(r.Creators)
	if err != nil {
		return nil, err
	}
	tokensCSV, err := RenderTokensCSV(r.TopTokens)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name    string
		content string
	}{
		{MarkdownFile, RenderMarkdown(r)},
		{CreatorsCSVFile, creatorsCSV},
		{TokensCSVFile, tokensCSV},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", f.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
