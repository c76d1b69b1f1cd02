package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

var _ types.MenuStore = (*menuStore)(nil)

// menuStore is the types.MenuStore for one restaurant.
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
	rows, err := b.db.QueryContext(ctx, `SELECT item_id, name, category, price, is_available, description, image
FROM menu_items WHERE restaurant_id = ? ORDER BY position, item_id`, s.restaurantID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []types.MenuItem
	for rows.Next() {
		var it types.MenuItem
		var price string
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &price, &it.IsAvailable, &it.Description, &it.Image); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
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
	rows, err := b.db.QueryContext(ctx, `SELECT category_id, name, item_ids
FROM custom_categories WHERE restaurant_id = ? ORDER BY position`, s.restaurantID)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var cats []types.CustomCategory
	for rows.Next() {
		var c types.CustomCategory
		var ids string
		if err := rows.Scan(&c.ID, &c.Name, &ids); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &c.ItemIDs); err != nil {
			return nil, fmt.Errorf("category %s item_ids: %w", c.ID, err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Persist writes the committed items and rewrites menu_items.jsonl.
// Items not in the slice are left untouched.
func (s *menuStore) Persist(ctx context.Context, items []types.MenuItem) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertItems(ctx, tx, s.restaurantID, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing items: %w", err)
	}
	if err := b.persistMenuItemsJSONL(); err != nil {
		return err
	}
	b.logger.Debug("items persisted", zap.String("restaurant_id", s.restaurantID), zap.Int("items", len(items)))
	return nil
}

// PersistCategories replaces the restaurant's custom categories and rewrites
// custom_categories.jsonl.
func (s *menuStore) PersistCategories(ctx context.Context, categories []types.CustomCategory) error {
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM custom_categories WHERE restaurant_id = ?", s.restaurantID); err != nil {
		return fmt.Errorf("clearing categories: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO custom_categories (restaurant_id, category_id, name, item_ids, position)
VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing category insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range categories {
		ids, err := json.Marshal(nonNil(c.ItemIDs))
		if err != nil {
			return fmt.Errorf("encoding item_ids for %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, s.restaurantID, c.ID, c.Name, string(ids), i); err != nil {
			return fmt.Errorf("inserting category %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing categories: %w", err)
	}
	if err := b.persistCustomCategoriesJSONL(); err != nil {
		return err
	}
	b.logger.Debug("categories persisted", zap.String("restaurant_id", s.restaurantID), zap.Int("categories", len(categories)))
	return nil
}

// upsertItems writes items with their slice position as menu order.
func upsertItems(ctx context.Context, tx *sql.Tx, restaurantID string, items []types.MenuItem) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO menu_items
    (restaurant_id, item_id, name, category, price, is_available, description, image, position)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(restaurant_id, item_id) DO UPDATE SET
    name = excluded.name,
    category = excluded.category,
    price = excluded.price,
    is_available = excluded.is_available,
    description = excluded.description,
    image = excluded.image,
    position = excluded.position`)
	if err != nil {
		return fmt.Errorf("preparing item upsert: %w", err)
	}
	defer stmt.Close()

	for i, it := range items {
		_, err := stmt.ExecContext(ctx,
			restaurantID, it.ID, it.Name, it.Category, it.Price.String(),
			boolToInt(it.IsAvailable), it.Description, it.Image, i,
		)
		if err != nil {
			return fmt.Errorf("upserting item %s: %w", it.ID, err)
		}
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
