package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

var _ types.MenuStore = (*menuStore)(nil)

type menuStore struct {
	backend      *Backend
	restaurantID string
}

// Items returns the restaurant's items in menu order.
func (s *menuStore) Items(ctx context.Context) ([]types.MenuItem, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	rows, err := b.pool.Query(ctx, `
		SELECT item_id, name, category, price, is_available, description, image
		FROM menu_items WHERE restaurant_id = $1 ORDER BY position, item_id`, s.restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []types.MenuItem
	for rows.Next() {
		var it types.MenuItem
		var price string
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &price, &it.IsAvailable, &it.Description, &it.Image); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("item %s price %q: %w", it.ID, price, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Categories returns the restaurant's custom categories in creation order.
func (s *menuStore) Categories(ctx context.Context) ([]types.CustomCategory, error) {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	rows, err := b.pool.Query(ctx, `
		SELECT category_id, name, item_ids
		FROM custom_categories WHERE restaurant_id = $1 ORDER BY position`, s.restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []types.CustomCategory
	for rows.Next() {
		var c types.CustomCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.ItemIDs); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if c.ItemIDs == nil {
			c.ItemIDs = []string{}
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Persist upserts the committed items. Items not in the slice are left
// untouched.
func (s *menuStore) Persist(ctx context.Context, items []types.MenuItem) error {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	err := pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		return upsertItems(ctx, tx, s.restaurantID, items)
	})
	if err != nil {
		return err
	}
	b.logger.Debug("items persisted", zap.String("restaurant_id", s.restaurantID), zap.Int("items", len(items)))
	return nil
}

// PersistCategories replaces the restaurant's custom categories.
func (s *menuStore) PersistCategories(ctx context.Context, categories []types.CustomCategory) error {
	b := s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	err := pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM custom_categories WHERE restaurant_id = $1`, s.restaurantID); err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
		batch := &pgx.Batch{}
		for i, c := range categories {
			ids := c.ItemIDs
			if ids == nil {
				ids = []string{}
			}
			batch.Queue(`
				INSERT INTO custom_categories (restaurant_id, category_id, name, item_ids, position)
				VALUES ($1, $2, $3, $4, $5)`,
				s.restaurantID, c.ID, c.Name, ids, i)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	b.logger.Debug("categories persisted", zap.String("restaurant_id", s.restaurantID), zap.Int("categories", len(categories)))
	return nil
}

// upsertItems writes items with their slice position as menu order.
func upsertItems(ctx context.Context, tx pgx.Tx, restaurantID string, items []types.MenuItem) error {
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(`
			INSERT INTO menu_items
				(restaurant_id, item_id, name, category, price, is_available, description, image, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (restaurant_id, item_id) DO UPDATE SET
				name = EXCLUDED.name,
				category = EXCLUDED.category,
				price = EXCLUDED.price,
				is_available = EXCLUDED.is_available,
				description = EXCLUDED.description,
				image = EXCLUDED.image,
				position = EXCLUDED.position`,
			restaurantID, it.ID, it.Name, it.Category, it.Price.String(),
			it.IsAvailable, it.Description, it.Image, i)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert items: %w", err)
	}
	return nil
}
