package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

const tokenColumns = `
	id, name, ticker, description, category, rarity, hp, image_url, moves,
	market_cap, creator_wallet, holder_count, volume_24h, price_change_24h,
	price_usd, mint_address, pump_url, twitter_link, created_at, updated_at
`

// Append adds a new record. Returns ErrDuplicateKey if the id or mint exists.
func (s *TokenStore) Append(ctx context.Context, t *domain.TokenRecord) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	moves := t.Moves
	if moves == nil {
		moves = []domain.Move{}
	}

	query := `
		INSERT INTO tokens (` + tokenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		t.ID,
		t.Name,
		t.Ticker,
		t.Description,
		string(t.Category),
		string(t.Rarity),
		t.HP,
		t.ImageURL,
		moves,
		t.MarketCap,
		t.CreatorWallet,
		t.HolderCount,
		t.Volume24h,
		t.PriceChange24h,
		t.PriceUSD,
		t.MintAddress,
		t.PumpURL,
		t.TwitterLink,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err := s.pool.observe("insert_token", start, err); err != nil {
		return fmt.Errorf("insert token %s: %w", t.ID, err)
	}
	return nil
}

// GetByID retrieves a record by ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(ctx context.Context, id string) (*domain.TokenRecord, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE id = $1`

	start := time.Now()
	t, err := scanToken(s.pool.QueryRow(ctx, query, id))
	if err := s.pool.observe("get_token", start, err); err != nil {
		return nil, fmt.Errorf("get token %s: %w", id, err)
	}
	return t, nil
}

// GetByMint retrieves a record by mint address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByMint(ctx context.Context, mint string) (*domain.TokenRecord, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE mint_address = $1`

	start := time.Now()
	t, err := scanToken(s.pool.QueryRow(ctx, query, mint))
	if err := s.pool.observe("get_token_by_mint", start, err); err != nil {
		return nil, fmt.Errorf("get token by mint %s: %w", mint, err)
	}
	return t, nil
}

// List returns all records, newest first.
func (s *TokenStore) List(ctx context.Context) (_ []domain.TokenRecord, err error) {
	start := time.Now()
	defer func() {
		err = s.pool.observe("list_tokens", start, err)
	}()

	query := `SELECT ` + tokenColumns + ` FROM tokens ORDER BY created_at DESC, id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	result := []domain.TokenRecord{}
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tokens: %w", err)
	}
	return result, nil
}

// UpdateMarketData applies a market refresh. A nil holder count keeps the stored value.
func (s *TokenStore) UpdateMarketData(ctx context.Context, id string, u domain.MarketUpdate) error {
	query := `
		UPDATE tokens SET
			market_cap = $2,
			price_usd = $3,
			volume_24h = $4,
			price_change_24h = $5,
			holder_count = COALESCE($6, holder_count),
			updated_at = $7
		WHERE id = $1
	`

	start := time.Now()
	tag, err := s.pool.Exec(ctx, query,
		id, u.MarketCap, u.PriceUSD, u.Volume24h, u.PriceChange24h, u.HolderCount, u.UpdatedAt,
	)
	if err := s.pool.observe("update_market_data", start, err); err != nil {
		return fmt.Errorf("update token %s market data: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanToken scans a single row into TokenRecord.
func scanToken(row pgx.Row) (*domain.TokenRecord, error) {
	var t domain.TokenRecord
	var category, rarity string

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Ticker,
		&t.Description,
		&category,
		&rarity,
		&t.HP,
		&t.ImageURL,
		&t.Moves,
		&t.MarketCap,
		&t.CreatorWallet,
		&t.HolderCount,
		&t.Volume24h,
		&t.PriceChange24h,
		&t.PriceUSD,
		&t.MintAddress,
		&t.PumpURL,
		&t.TwitterLink,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Category = domain.CategoryOrDefault(category)
	t.Rarity = domain.RarityOrDefault(rarity)
	return &t, nil
}
