package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/storage"
)

func testToken(id string, createdAt int64) *domain.TokenRecord {
	return &domain.TokenRecord{
		ID:            id,
		Name:          "Blazeon",
		Ticker:        "BLZ",
		Description:   "A fiery starter",
		Category:      domain.CategoryFire,
		Rarity:        domain.RarityEpic,
		HP:            120,
		ImageURL:      "https://example.com/blazeon.png",
		Moves:         []domain.Move{{Name: "Flame Burst", Damage: 40, Description: "Scorches the field"}},
		MarketCap:     275_000,
		CreatorWallet: "creator-wallet-1",
		HolderCount:   ptr(int64(321)),
		PriceUSD:      0.000275,
		PumpURL:       "https://pump.fun/coin/" + id,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestTokenStore_AppendAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	rec := testToken("tok-1", 1700000000000)
	rec.MintAddress = ptr("So11111111111111111111111111111111111111112")
	require.NoError(t, store.Append(ctx, rec))

	got, err := store.GetByID(ctx, "tok-1")
	require.NoError(t, err)

	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.Category, got.Category)
	assert.Equal(t, rec.Rarity, got.Rarity)
	assert.Equal(t, rec.Moves, got.Moves)
	assert.InDelta(t, rec.MarketCap, got.MarketCap, 0.0001)
	require.NotNil(t, got.HolderCount)
	assert.Equal(t, int64(321), *got.HolderCount)
	assert.Equal(t, rec.Mint(), got.Mint())
	assert.Equal(t, rec.CreatedAt, got.CreatedAt)

	byMint, err := store.GetByMint(ctx, rec.Mint())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", byMint.ID)
}

func TestTokenStore_AppendDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	require.NoError(t, store.Append(ctx, testToken("tok-dup", 1000)))
	err := store.Append(ctx, testToken("tok-dup", 2000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestTokenStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.UpdateMarketData(ctx, "missing", domain.MarketUpdate{MarketCap: 1})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTokenStore_ListAndUpdate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenStore(pool)

	nullable := testToken("tok-old", 1000)
	nullable.HolderCount = nil
	nullable.Moves = nil
	require.NoError(t, store.Append(ctx, nullable))
	require.NoError(t, store.Append(ctx, testToken("tok-new", 2000)))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "tok-new", list[0].ID)
	assert.Equal(t, "tok-old", list[1].ID)
	assert.Nil(t, list[1].HolderCount)
	assert.Empty(t, list[1].Moves)

	err = store.UpdateMarketData(ctx, "tok-new", domain.MarketUpdate{
		MarketCap:      1_250_000,
		PriceUSD:       0.00125,
		Volume24h:      42_000,
		PriceChange24h: -3.5,
		UpdatedAt:      5000,
	})
	require.NoError(t, err)

	got, err := store.GetByID(ctx, "tok-new")
	require.NoError(t, err)
	assert.InDelta(t, 1_250_000, got.MarketCap, 0.0001)
	assert.InDelta(t, -3.5, got.PriceChange24h, 0.0001)
	assert.Equal(t, int64(5000), got.UpdatedAt)
	require.NotNil(t, got.HolderCount)
	assert.Equal(t, int64(321), *got.HolderCount, "nil holder update keeps stored value")
}
