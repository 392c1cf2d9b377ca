package memory

import (
	"context"
	"errors"
	"testing"

	"pokelaunch/internal/domain"
	"pokelaunch/internal/storage"
)

func TestTemplateStore_InsertAndList(t *testing.T) {
	store := NewTemplateStore()
	ctx := context.Background()

	templates := []*domain.Template{
		{ID: "tpl-2", Name: "Pyroclaw", Category: domain.CategoryFire, Rarity: domain.RarityRare, HP: 90},
		{ID: "tpl-1", Name: "Aquafin", Category: domain.CategoryWater, Rarity: domain.RarityCommon, HP: 60},
	}
	for _, tpl := range templates {
		if err := store.Insert(ctx, tpl); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 templates, got %d", len(list))
	}
	if list[0].Name != "Aquafin" || list[1].Name != "Pyroclaw" {
		t.Errorf("Expected templates ordered by name, got %s, %s", list[0].Name, list[1].Name)
	}
}

func TestTemplateStore_DuplicateKey(t *testing.T) {
	store := NewTemplateStore()
	ctx := context.Background()

	tpl := &domain.Template{ID: "tpl-1", Name: "Aquafin"}
	if err := store.Insert(ctx, tpl); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	if err := store.Insert(ctx, tpl); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}
