package postgres

import (
	"context"
	"fmt"
	"time"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/storage"
)

// TemplateStore implements storage.TemplateStore using PostgreSQL.
type TemplateStore struct {
	pool *Pool
}

// NewTemplateStore creates a new TemplateStore.
func NewTemplateStore(pool *Pool) *TemplateStore {
	return &TemplateStore{pool: pool}
}

var _ storage.TemplateStore = (*TemplateStore)(nil)

// Insert adds a template. Returns ErrDuplicateKey if the id exists.
func (s *TemplateStore) Insert(ctx context.Context, t *domain.Template) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	moves := t.BaseMoves
	if moves == nil {
		moves = []domain.Move{}
	}

	start := time.Now()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO templates (id, name, category, rarity, hp, image_url, base_moves)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, t.ID, t.Name, string(t.Category), string(t.Rarity), t.HP, t.ImageURL, moves)
	if err := s.pool.observe("insert_template", start, err); err != nil {
		return fmt.Errorf("insert template %s: %w", t.ID, err)
	}
	return nil
}

// List returns all templates ordered by name.
func (s *TemplateStore) List(ctx context.Context) (_ []domain.Template, err error) {
	start := time.Now()
	defer func() {
		err = s.pool.observe("list_templates", start, err)
	}()

	rows, err := s.pool.Query(ctx, `
		SELECT id, name, category, rarity, hp, image_url, base_moves
		FROM templates
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	result := []domain.Template{}
	for rows.Next() {
		var t domain.Template
		var category, rarity string
		if err := rows.Scan(&t.ID, &t.Name, &category, &rarity, &t.HP, &t.ImageURL, &t.BaseMoves); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.Category = domain.CategoryOrDefault(category)
		t.Rarity = domain.RarityOrDefault(rarity)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return result, nil
}
