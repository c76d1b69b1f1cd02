// Package postgres implements the Postgres storage backend for stop-list
// data. Several terminals can share one database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

var _ types.Backend = (*Backend)(nil)

// Backend implements types.Backend on a pgx connection pool.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	pool     *pgxpool.Pool
	logger   *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// NewBackend creates a detached Postgres backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.L()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach connects to config.DSN and creates missing tables.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendPostgres {
		return fmt.Errorf("postgres backend cannot serve %q: %w", config.Backend, types.ErrBackendUnknown)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, config.DSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return fmt.Errorf("execute ddl: %w", err)
		}
	}

	b.pool = pool
	b.attached = true
	b.logger.Debug("postgres backend attached")
	return nil
}

// Detach closes the pool. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.pool.Close()
	b.pool = nil
	b.attached = false
	return nil
}

// Restaurants lists all restaurants in insertion order.
func (b *Backend) Restaurants(ctx context.Context) ([]types.Restaurant, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	rows, err := b.pool.Query(ctx,
		`SELECT restaurant_id, name, address, is_active FROM restaurants ORDER BY position, restaurant_id`)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	var out []types.Restaurant
	for rows.Next() {
		var r types.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.IsActive); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Menu returns the store for one restaurant's menu.
func (b *Backend) Menu(ctx context.Context, restaurantID string) (types.MenuStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	var active bool
	err := b.pool.QueryRow(ctx,
		`SELECT is_active FROM restaurants WHERE restaurant_id = $1`, restaurantID,
	).Scan(&active)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("restaurant %q: %w", restaurantID, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get restaurant %s: %w", restaurantID, err)
	}
	if !active {
		return nil, fmt.Errorf("restaurant %q: %w", restaurantID, types.ErrRestaurantInactive)
	}
	return &menuStore{backend: b, restaurantID: restaurantID}, nil
}

// Seed inserts a restaurant with its menu, replacing any previous data for
// the same restaurant ID including its custom categories.
func (b *Backend) Seed(ctx context.Context, r types.Restaurant, items []types.MenuItem) error {
	if r.ID == "" {
		return types.ErrInvalidID
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item %q: %w", it.ID, err)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrBackendDetached
	}
	return pgx.BeginFunc(ctx, b.pool, func(tx pgx.Tx) error {
		for _, table := range []string{"custom_categories", "menu_items"} {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE restaurant_id = $1", r.ID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO restaurants (restaurant_id, name, address, is_active, position)
			VALUES ($1, $2, $3, $4, (SELECT COUNT(*) FROM restaurants))
			ON CONFLICT (restaurant_id) DO UPDATE SET
				name = EXCLUDED.name,
				address = EXCLUDED.address,
				is_active = EXCLUDED.is_active`,
			r.ID, r.Name, r.Address, r.IsActive,
		)
		if err != nil {
			return fmt.Errorf("upsert restaurant %s: %w", r.ID, err)
		}
		if err := upsertItems(ctx, tx, r.ID, items); err != nil {
			return err
		}
		b.logger.Debug("restaurant seeded", zap.String("restaurant_id", r.ID), zap.Int("items", len(items)))
		return nil
	})
}
