package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// JSONL record shapes. Field names match the SQLite columns so loadAllJSONL
// can read them back.
type restaurantRecord struct {
	RestaurantID string `json:"restaurant_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	IsActive     bool   `json:"is_active"`
	Position     int    `json:"position"`
}

type menuItemRecord struct {
	RestaurantID string `json:"restaurant_id"`
	ItemID       string `json:"item_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	IsAvailable  bool   `json:"is_available"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	Position     int    `json:"position"`
}

type customCategoryRecord struct {
	RestaurantID string   `json:"restaurant_id"`
	CategoryID   string   `json:"category_id"`
	Name         string   `json:"name"`
	ItemIDs      []string `json:"item_ids"`
	Position     int      `json:"position"`
}

// queryRestaurants returns restaurants ordered by position.
func queryRestaurants(ctx context.Context, db *sql.DB) ([]types.Restaurant, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT restaurant_id, name, address, is_active FROM restaurants ORDER BY position, restaurant_id")
	if err != nil {
		return nil, fmt.Errorf("querying restaurants: %w", err)
	}
	defer rows.Close()

	var out []types.Restaurant
	for rows.Next() {
		var r types.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.IsActive); err != nil {
			return nil, fmt.Errorf("scanning restaurant: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// persistRestaurantsJSONL rewrites restaurants.jsonl from SQLite.
// The caller must hold b.mu.
func (b *Backend) persistRestaurantsJSONL() error {
	rows, err := b.db.Query("SELECT restaurant_id, name, address, is_active, position FROM restaurants ORDER BY position, restaurant_id")
	if err != nil {
		return fmt.Errorf("querying restaurants for JSONL: %w", err)
	}
	defer rows.Close()

	var records []restaurantRecord
	for rows.Next() {
		var r restaurantRecord
		if err := rows.Scan(&r.RestaurantID, &r.Name, &r.Address, &r.IsActive, &r.Position); err != nil {
			return fmt.Errorf("scanning restaurant for JSONL: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(b.jsonlPath(restaurantsJSONL), records)
}

// persistMenuItemsJSONL rewrites menu_items.jsonl from SQLite.
// The caller must hold b.mu.
func (b *Backend) persistMenuItemsJSONL() error {
	rows, err := b.db.Query(`SELECT restaurant_id, item_id, name, category, price, is_available, description, image, position
FROM menu_items ORDER BY restaurant_id, position, item_id`)
	if err != nil {
		return fmt.Errorf("querying items for JSONL: %w", err)
	}
	defer rows.Close()

	var records []menuItemRecord
	for rows.Next() {
		var r menuItemRecord
		if err := rows.Scan(&r.RestaurantID, &r.ItemID, &r.Name, &r.Category, &r.Price,
			&r.IsAvailable, &r.Description, &r.Image, &r.Position); err != nil {
			return fmt.Errorf("scanning item for JSONL: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(b.jsonlPath(menuItemsJSONL), records)
}

// persistCustomCategoriesJSONL rewrites custom_categories.jsonl from SQLite.
// The caller must hold b.mu.
func (b *Backend) persistCustomCategoriesJSONL() error {
	rows, err := b.db.Query(`SELECT restaurant_id, category_id, name, item_ids, position
FROM custom_categories ORDER BY restaurant_id, position`)
	if err != nil {
		return fmt.Errorf("querying categories for JSONL: %w", err)
	}
	defer rows.Close()

	var records []customCategoryRecord
	for rows.Next() {
		var r customCategoryRecord
		var ids string
		if err := rows.Scan(&r.RestaurantID, &r.CategoryID, &r.Name, &ids, &r.Position); err != nil {
			return fmt.Errorf("scanning category for JSONL: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &r.ItemIDs); err != nil {
			return fmt.Errorf("decoding item_ids for %s: %w", r.CategoryID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(b.jsonlPath(customCategoriesJSONL), records)
}
