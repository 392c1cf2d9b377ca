package reporting

import (
	"fmt"
	"strings"
	"time"

	"pokelaunch/internal/format"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Creator Leaderboard\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tokens | %s |\n", format.FormatCount(int64(r.Summary.Tokens))))
	sb.WriteString(fmt.Sprintf("| Creators | %s |\n", format.FormatCount(int64(r.Summary.Creators))))
	sb.WriteString(fmt.Sprintf("| Total Market Cap | %s |\n", format.FormatMarketCap(r.Summary.TotalMarketCap)))
	sb.WriteString(fmt.Sprintf("| Reward Pool | %s |\n", format.FormatSOL(r.Summary.RewardPool)))
	if r.Summary.Tokens > 0 {
		sb.WriteString(fmt.Sprintf("| First Launch | %s |\n", time.UnixMilli(r.Summary.OldestCreated).UTC().Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("| Latest Launch | %s |\n", time.UnixMilli(r.Summary.NewestCreated).UTC().Format(time.RFC3339)))
	}
	sb.WriteString("\n")

	// Creators
	sb.WriteString("## Creators\n\n")
	if len(r.Creators) > 0 {
		sb.WriteString("| Rank | Badge | Creator | Tokens | Market Cap | Popularity | Reward | Max Stage | Top Token |\n")
		sb.WriteString("|------|-------|---------|--------|------------|------------|--------|-----------|-----------|\n")
		for _, c := range r.Creators {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %s | %d | %s | %d | %s |\n",
				c.Rank, c.Badge, shortWallet(c.Creator), c.Tokens,
				format.FormatMarketCap(c.TotalMarketCap), c.TotalPopularity,
				format.FormatSOL(c.RewardAmount), c.MaxStage, escapeCell(c.TopTokenName)))
		}
	} else {
		sb.WriteString("No creators yet.\n")
	}
	sb.WriteString("\n")

	// Top tokens
	sb.WriteString("## Top Tokens\n\n")
	if len(r.TopTokens) > 0 {
		sb.WriteString("| # | Token | Ticker | Category | Stage | Market Cap | Popularity |\n")
		sb.WriteString("|---|-------|--------|----------|-------|------------|------------|\n")
		for i, t := range r.TopTokens {
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %d |\n",
				i+1, escapeCell(t.Name), t.Ticker, t.Category, t.StageName,
				format.FormatMarketCap(t.MarketCap), t.Popularity))
		}
	} else {
		sb.WriteString("No tokens launched.\n")
	}
	sb.WriteString("\n")

	// Categories
	sb.WriteString("## Categories\n\n")
	sb.WriteString("| Category | Tokens | Market Cap | Legendary |\n")
	sb.WriteString("|----------|--------|------------|-----------|\n")
	for _, c := range r.Categories {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %d |\n",
			c.Category, c.Tokens, format.FormatMarketCap(c.TotalMarketCap), c.Legendary))
	}
	sb.WriteString("\n")

	// Stages
	sb.WriteString("## Evolution Stages\n\n")
	sb.WriteString("| Stage | Name | Tokens |\n")
	sb.WriteString("|-------|------|--------|\n")
	for _, s := range r.Stages {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d |\n", s.Stage, s.Name, s.Count))
	}
	sb.WriteString("\n")

	return sb.String()
}

// shortWallet abbreviates long wallet addresses as ABCD...WXYZ.
func shortWallet(w string) string {
	if len(w) <= 12 {
		return w
	}
	return w[:4] + "..." + w[len(w)-4:]
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
