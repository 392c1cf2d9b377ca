package memory

import (
	"context"
	"sort"
	"sync"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/storage"
)

// TemplateStore is an in-memory implementation of storage.TemplateStore.
type TemplateStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Template
}

// NewTemplateStore creates a new in-memory template store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{
		data: make(map[string]*domain.Template),
	}
}

// Insert adds a template. Returns ErrDuplicateKey if the id exists.
func (s *TemplateStore) Insert(_ context.Context, t *domain.Template) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	tplCopy := *t
	tplCopy.BaseMoves = append([]domain.Move(nil), t.BaseMoves...)
	s.data[t.ID] = &tplCopy
	return nil
}

// List returns all templates ordered by name.
func (s *TemplateStore) List(_ context.Context) ([]domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Template, 0, len(s.data))
	for _, t := range s.data {
		tplCopy := *t
		tplCopy.BaseMoves = append([]domain.Move(nil), t.BaseMoves...)
		result = append(result, tplCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result, nil
}

var _ storage.TemplateStore = (*TemplateStore)(nil)
