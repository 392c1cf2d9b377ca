package storage

import (
	"context"

	"pokelaunch/internal/domain"
)

// TokenStore is the system of record for launched tokens.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	// Append adds a new record. Returns ErrDuplicateKey if the id or mint exists.
	Append(ctx context.Context, t *domain.TokenRecord) error

	// GetByID retrieves a record by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.TokenRecord, error)

	// GetByMint retrieves a record by mint address. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.TokenRecord, error)

	// List returns a snapshot of all records, newest first.
	List(ctx context.Context) ([]domain.TokenRecord, error)

	// UpdateMarketData applies a live market refresh. Returns ErrNotFound if not exists.
	UpdateMarketData(ctx context.Context, id string, u domain.MarketUpdate) error
}

// TemplateStore provides access to starter card templates.
type TemplateStore interface {
	// Insert adds a template. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, t *domain.Template) error

	// List returns all templates ordered by name.
	List(ctx context.Context) ([]domain.Template, error)
}

// MarketSnapshotStore provides access to market_snapshots storage.
type MarketSnapshotStore interface {
	// InsertBulk adds multiple snapshots. Fails entire batch on duplicate (token_id, timestamp_ms).
	InsertBulk(ctx context.Context, snapshots []*domain.MarketSnapshot) error

	// GetByTokenID retrieves all snapshots for a token, ordered by timestamp ASC.
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.MarketSnapshot, error)

	// GetByTimeRange retrieves snapshots for a token within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.MarketSnapshot, error)
}
