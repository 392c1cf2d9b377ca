package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// RenderCreatorsCSV renders creator rows as CSV in rank order.
func RenderCreatorsCSV(rows []CreatorRow) (string, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{
		"rank", "badge", "creator", "tokens", "total_market_cap",
		"total_popularity", "reward_sol", "max_stage", "top_token",
	})
	for _, c := range rows {
		records = append(records, []string{
			strconv.Itoa(c.Rank),
			c.Badge,
			c.Creator,
			strconv.Itoa(c.Tokens),
			floatField(c.TotalMarketCap, 2),
			strconv.FormatInt(c.TotalPopularity, 10),
			floatField(c.RewardAmount, 3),
			strconv.Itoa(c.MaxStage),
			c.TopTokenName,
		})
	}
	return writeCSV(records)
}

// RenderTokensCSV renders token rows as CSV in table order.
func RenderTokensCSV(rows []TokenRow) (string, error) {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{
		"id", "name", "ticker", "category", "stage", "market_cap", "popularity", "creator",
	})
	for _, t := range rows {
		records = append(records, []string{
			t.ID,
			t.Name,
			t.Ticker,
			t.Category,
			strconv.Itoa(t.Stage),
			floatField(t.MarketCap, 2),
			strconv.FormatInt(t.Popularity, 10),
			t.Creator,
		})
	}
	return writeCSV(records)
}

func writeCSV(records [][]string) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func floatField(v float64, places int) string {
	return strconv.FormatFloat(v, 'f', places, 64)
}
