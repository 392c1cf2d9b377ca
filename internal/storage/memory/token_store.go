package memory

import (
	"context"
	"sort"
	"sync"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/storage"
)

// TokenStore is an in-memory implementation of storage.TokenStore.
type TokenStore struct {
	mu     sync.RWMutex
	byID   map[string]*domain.TokenRecord
	byMint map[string]string // mint -> id
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		byID:   make(map[string]*domain.TokenRecord),
		byMint: make(map[string]string),
	}
}

// Append adds a new record. Returns ErrDuplicateKey if the id or mint already exists.
func (s *TokenStore) Append(_ context.Context, t *domain.TokenRecord) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[t.ID]; exists {
		return storage.ErrDuplicateKey
	}
	mint := t.Mint()
	if mint != "" {
		if _, exists := s.byMint[mint]; exists {
			return storage.ErrDuplicateKey
		}
	}

	rec := t.Clone()
	s.byID[t.ID] = &rec
	if mint != "" {
		s.byMint[mint] = t.ID
	}
	return nil
}

// GetByID retrieves a record by ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(_ context.Context, id string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.byID[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	rec := t.Clone()
	return &rec, nil
}

// GetByMint retrieves a record by mint address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByMint(_ context.Context, mint string) (*domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}
	rec := s.byID[id].Clone()
	return &rec, nil
}

// List returns copies of all records, newest first. Ties break on id.
func (s *TokenStore) List(_ context.Context) ([]domain.TokenRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.TokenRecord, 0, len(s.byID))
	for _, t := range s.byID {
		result = append(result, t.Clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt > result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// UpdateMarketData applies a market refresh. Returns ErrNotFound if not exists.
func (s *TokenStore) UpdateMarketData(_ context.Context, id string, u domain.MarketUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, exists := s.byID[id]
	if !exists {
		return storage.ErrNotFound
	}
	t.Apply(u)
	return nil
}

var _ storage.TokenStore = (*TokenStore)(nil)
