package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidRecord is returned by Validate for records that break an invariant.
var ErrInvalidRecord = errors.New("invalid token record")

// Move is a card attack.
type Move struct {
	Name        string `json:"name"`
	Damage      int    `json:"damage"`
	Description string `json:"description,omitempty"`
}

// TokenRecord is a launched token as persisted by the record store.
// Corresponds to tokens table in PostgreSQL.
type TokenRecord struct {
	ID             string   // PRIMARY KEY, uuid
	Name           string   // display name
	Ticker         string   // token symbol
	Description    string   // card flavour text
	Category       Category // Fire | Water | Electric | Grass | Shadow | Meme
	Rarity         Rarity   // Common .. Legendary
	HP             int      // card hit points
	ImageURL       string   // card artwork
	Moves          []Move   // card attacks
	MarketCap      float64  // fiat-equivalent valuation, >= 0
	CreatorWallet  string   // grouping key for creator rankings (may be empty)
	HolderCount    *int64   // nullable, unknown treated as 0
	Volume24h      float64  // 24h traded volume
	PriceChange24h float64  // 24h change in percent
	PriceUSD       float64  // last known unit price
	MintAddress    *string  // on-chain mint (nullable for demo records)
	PumpURL        string   // launch page
	TwitterLink    string   // optional social link
	CreatedAt      int64    // Unix timestamp in milliseconds, immutable
	UpdatedAt      int64    // last market data refresh (ms)
}

// Holders returns the holder count, treating unknown as zero.
func (t *TokenRecord) Holders() int64 {
	if t.HolderCount == nil || *t.HolderCount < 0 {
		return 0
	}
	return *t.HolderCount
}

// Mint returns the mint address or an empty string.
func (t *TokenRecord) Mint() string {
	if t.MintAddress == nil {
		return ""
	}
	return *t.MintAddress
}

// Validate checks the persistence invariants of the record.
func (t *TokenRecord) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidRecord)
	}
	if !t.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidRecord, t.Category)
	}
	if !t.Rarity.IsValid() {
		return fmt.Errorf("%w: unknown rarity %q", ErrInvalidRecord, t.Rarity)
	}
	if math.IsNaN(t.MarketCap) || t.MarketCap < 0 {
		return fmt.Errorf("%w: market cap must be >= 0", ErrInvalidRecord)
	}
	if t.HolderCount != nil && *t.HolderCount < 0 {
		return fmt.Errorf("%w: holder count must be >= 0", ErrInvalidRecord)
	}
	if t.CreatedAt <= 0 {
		return fmt.Errorf("%w: missing created_at", ErrInvalidRecord)
	}
	return nil
}

// NewTokenID returns a fresh random token identifier.
func NewTokenID() string {
	return uuid.NewString()
}

// MarketUpdate is a live market data refresh applied to a stored record.
type MarketUpdate struct {
	MarketCap      float64
	PriceUSD       float64
	Volume24h      float64
	PriceChange24h float64
	HolderCount    *int64 // nil keeps the stored value
	UpdatedAt      int64  // ms
}

// Template is a starter card that new launches can be based on.
type Template struct {
	ID        string
	Name      string
	Category  Category
	Rarity    Rarity
	HP        int
	ImageURL  string
	BaseMoves []Move
}

// Clone returns a deep copy of the record.
func (t *TokenRecord) Clone() TokenRecord {
	out := *t
	if t.Moves != nil {
		out.Moves = append([]Move(nil), t.Moves...)
	}
	if t.HolderCount != nil {
		h := *t.HolderCount
		out.HolderCount = &h
	}
	if t.MintAddress != nil {
		m := *t.MintAddress
		out.MintAddress = &m
	}
	return out
}

// Apply copies a market refresh onto the record.
func (t *TokenRecord) Apply(u MarketUpdate) {
	t.MarketCap = u.MarketCap
	t.PriceUSD = u.PriceUSD
	t.Volume24h = u.Volume24h
	t.PriceChange24h = u.PriceChange24h
	if u.HolderCount != nil {
		h := *u.HolderCount
		t.HolderCount = &h
	}
	t.UpdatedAt = u.UpdatedAt
}
