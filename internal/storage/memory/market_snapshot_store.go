package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/storage"
)

// MarketSnapshotStore is an in-memory implementation of storage.MarketSnapshotStore.
type MarketSnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.MarketSnapshot // keyed by (token_id, timestamp_ms)
}

// NewMarketSnapshotStore creates a new in-memory market snapshot store.
func NewMarketSnapshotStore() *MarketSnapshotStore {
	return &MarketSnapshotStore{
		data: make(map[string]*domain.MarketSnapshot),
	}
}

func snapshotKey(tokenID string, timestampMs int64) string {
	return fmt.Sprintf("%s|%d", tokenID, timestampMs)
}

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate.
func (s *MarketSnapshotStore) InsertBulk(_ context.Context, snapshots []*domain.MarketSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(snapshots))

	// First pass: validate and check duplicates (existing + intra-batch)
	for _, snap := range snapshots {
		if snap == nil || snap.TokenID == "" {
			return storage.ErrInvalidInput
		}
		key := snapshotKey(snap.TokenID, snap.TimestampMs)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, snap := range snapshots {
		snapCopy := *snap
		s.data[snapshotKey(snap.TokenID, snap.TimestampMs)] = &snapCopy
	}

	return nil
}

// GetByTokenID retrieves all snapshots for a token, ordered by timestamp ASC.
func (s *MarketSnapshotStore) GetByTokenID(_ context.Context, tokenID string) ([]*domain.MarketSnapshot, error) {
	return s.collect(func(snap *domain.MarketSnapshot) bool {
		return snap.TokenID == tokenID
	}), nil
}

// GetByTimeRange retrieves snapshots for a token within [start, end] (inclusive).
func (s *MarketSnapshotStore) GetByTimeRange(_ context.Context, tokenID string, start, end int64) ([]*domain.MarketSnapshot, error) {
	return s.collect(func(snap *domain.MarketSnapshot) bool {
		return snap.TokenID == tokenID && snap.TimestampMs >= start && snap.TimestampMs <= end
	}), nil
}

func (s *MarketSnapshotStore) collect(match func(*domain.MarketSnapshot) bool) []*domain.MarketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.MarketSnapshot
	for _, snap := range s.data {
		if match(snap) {
			snapCopy := *snap
			result = append(result, &snapCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})
	return result
}

var _ storage.MarketSnapshotStore = (*MarketSnapshotStore)(nil)
