package marketdata

import (
	"github.com/shopspring/decimal"
)

// Quote is the market data for one mint taken from its first listed pair.
type Quote struct {
	Mint           string
	PriceUSD       float64
	PriceNative    float64 // price in SOL
	MarketCap      float64 // market cap, or FDV when the pair has none
	FDV            float64
	Volume24h      float64
	PriceChange24h float64
	LiquidityUSD   float64
	DexID          string
	PairAddress    string
}

type dexResponse struct {
	SchemaVersion string    `json:"schemaVersion"`
	Pairs         []dexPair `json:"pairs"`
}

type dexPair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	URL         string `json:"url"`
	PairAddress string `json:"pairAddress"`
	BaseToken   struct {
		Address string `json:"address"`
		Name    string `json:"name"`
		Symbol  string `json:"symbol"`
	} `json:"baseToken"`
	PriceNative string `json:"priceNative"`
	PriceUSD    string `json:"priceUsd"`
	Volume      struct {
		H24 float64 `json:"h24"`
	} `json:"volume"`
	PriceChange struct {
		H24 float64 `json:"h24"`
	} `json:"priceChange"`
	Liquidity struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
	FDV       float64 `json:"fdv"`
	MarketCap float64 `json:"marketCap"`
}

type solscanHolders struct {
	Data struct {
		Total int64 `json:"total"`
	} `json:"data"`
}

type solscanMeta struct {
	Holder int64 `json:"holder"`
}

// quotesFromPairs keeps the first pair seen per base token address.
func quotesFromPairs(pairs []dexPair) map[string]Quote {
	out := make(map[string]Quote, len(pairs))
	for _, p := range pairs {
		addr := p.BaseToken.Address
		if addr == "" {
			continue
		}
		if _, seen := out[addr]; seen {
			continue
		}

		mc := p.MarketCap
		if mc <= 0 {
			mc = p.FDV
		}
		out[addr] = Quote{
			Mint:           addr,
			PriceUSD:       parseAmount(p.PriceUSD),
			PriceNative:    parseAmount(p.PriceNative),
			MarketCap:      mc,
			FDV:            p.FDV,
			Volume24h:      p.Volume.H24,
			PriceChange24h: p.PriceChange.H24,
			LiquidityUSD:   p.Liquidity.USD,
			DexID:          p.DexID,
			PairAddress:    p.PairAddress,
		}
	}
	return out
}

// parseAmount parses a decimal string, yielding 0 for empty or malformed input.
func parseAmount(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
