package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/GabRuby/calcTacos/internal/domain/menu"
	"github.com/GabRuby/calcTacos/internal/infrastructure/storage"
)

// MenuService manages the catalog.
type MenuService struct {
	repo   storage.MenuRepository
	logger *slog.Logger
}

// NewMenuService creates a new menu service.
func NewMenuService(repo storage.MenuRepository, logger *slog.Logger) *MenuService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuService{repo: repo, logger: logger}
}

// List returns every catalog item.
func (s *MenuService) List(ctx context.Context) ([]menu.Item, error) {
	items, err := s.repo.ListMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return items, nil
}

// Catalog returns the current catalog as a lookup index.
func (s *MenuService) Catalog(ctx context.Context) (menu.Index, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return menu.NewIndex(items), nil
}

// Save validates and upserts an item.
func (s *MenuService) Save(ctx context.Context, item menu.Item) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.repo.SaveMenuItem(ctx, item); err != nil {
		return fmt.Errorf("save menu item %s: %w", item.ID, err)
	}
	s.logger.Info("menu item saved", "item_id", item.ID, "price", item.Price)
	return nil
}

// Delete removes an item. Orders that still reference it keep their lines
// but the item no longer prices.
func (s *MenuService) Delete(ctx context.Context, id string) error {
	err := s.repo.DeleteMenuItem(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrMenuItemNotFound
	}
	if err != nil {
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	s.logger.Info("menu item deleted", "item_id", id)
	return nil
}

// LoadSeedFile reads a YAML list of menu items.
func LoadSeedFile(path string) ([]menu.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read menu seed: %w", err)
	}
	var items []menu.Item
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse menu seed: %w", err)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("menu seed item %q: %w", item.ID, err)
		}
	}
	return items, nil
}

// Seed loads the seed file into an empty catalog. It returns how many items
// were added; a catalog that already has items is left alone.
func (s *MenuService) Seed(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}
	existing, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		s.logger.Debug("menu already populated, skipping seed", "items", len(existing))
		return 0, nil
	}

	items, err := LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if err := s.repo.SaveMenuItem(ctx, item); err != nil {
			return 0, fmt.Errorf("seed menu item %s: %w", item.ID, err)
		}
	}
	s.logger.Info("menu seeded", "items", len(items), "file", path)
	return len(items), nil
}
