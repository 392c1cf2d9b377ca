package clickhouse

import (
	"context"
	"fmt"
	"time"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/observability"
	"pokelaunch/internal/storage"
)

// MarketSnapshotStore implements storage.MarketSnapshotStore using ClickHouse.
type MarketSnapshotStore struct {
	conn *Conn
}

// NewMarketSnapshotStore creates a new MarketSnapshotStore.
func NewMarketSnapshotStore(conn *Conn) *MarketSnapshotStore {
	return &MarketSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MarketSnapshotStore = (*MarketSnapshotStore)(nil)

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate (token_id, timestamp_ms).
func (s *MarketSnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.MarketSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	type key struct {
		tokenID     string
		timestampMs int64
	}
	seen := make(map[key]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if snap == nil || snap.TokenID == "" || snap.TimestampMs < 0 {
			return storage.ErrInvalidInput
		}
		k := key{snap.TokenID, snap.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// MergeTree does not enforce uniqueness, check existing rows explicitly.
	for _, snap := range snapshots {
		exists, err := s.exists(ctx, snap.TokenID, snap.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO market_snapshots (
			token_id, timestamp_ms, market_cap, price_usd, volume_24h, holders, stage
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		holders := snap.Holders
		if holders < 0 {
			holders = 0
		}
		err = batch.Append(
			snap.TokenID, uint64(snap.TimestampMs),
			snap.MarketCap, snap.PriceUSD, snap.Volume24h,
			uint64(holders), uint8(snap.Stage),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	start := time.Now()
	err = batch.Send()
	observability.RecordDBQuery("clickhouse", "insert_snapshots", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all snapshots for a token, ordered by timestamp ASC.
func (s *MarketSnapshotStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.MarketSnapshot, error) {
	query := `
		SELECT token_id, timestamp_ms, market_cap, price_usd, volume_24h, holders, stage
		FROM market_snapshots
		WHERE token_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("query by token id: %w", err)
	}
	defer rows.Close()

	return scanMarketSnapshots(rows)
}

// GetByTimeRange retrieves snapshots for a token within [start, end] (inclusive).
func (s *MarketSnapshotStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.MarketSnapshot, error) {
	query := `
		SELECT token_id, timestamp_ms, market_cap, price_usd, volume_24h, holders, stage
		FROM market_snapshots
		WHERE token_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanMarketSnapshots(rows)
}

func (s *MarketSnapshotStore) exists(ctx context.Context, tokenID string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM market_snapshots
		WHERE token_id = ? AND timestamp_ms = ?
	`

	var count uint64
	if err := s.conn.QueryRow(ctx, query, tokenID, uint64(timestampMs)).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanMarketSnapshots(rows chRows) ([]*domain.MarketSnapshot, error) {
	var snapshots []*domain.MarketSnapshot

	for rows.Next() {
		var snap domain.MarketSnapshot
		var timestampMs, holders uint64
		var stage uint8

		err := rows.Scan(
			&snap.TokenID, &timestampMs,
			&snap.MarketCap, &snap.PriceUSD, &snap.Volume24h,
			&holders, &stage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan market snapshot row: %w", err)
		}

		snap.TimestampMs = int64(timestampMs)
		snap.Holders = int64(holders)
		snap.Stage = domain.EvolutionStage(stage)
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market snapshot rows: %w", err)
	}
	return snapshots, nil
}
