// Package sqlite implements the SQLite storage backend for stop-list data.
// JSONL files in DataDir are the source of truth; SQLite is rebuilt from them
// on Attach and serves every query.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// dbFileName is the SQLite file created inside DataDir.
const dbFileName = "stoplist.db"

var _ types.Backend = (*Backend)(nil)

// Backend implements types.Backend on SQLite with JSONL persistence.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	logger   *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: zap.L()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach creates DataDir if needed, builds a fresh SQLite database and loads
// the JSONL files into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendSQLite {
		return fmt.Errorf("sqlite backend cannot serve %q: %w", config.Backend, types.ErrBackendUnknown)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database is a cache of the JSONL files and is rebuilt every time.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	if err := ensureJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	config.DataDir = dataDir
	b.db = db
	b.config = config
	b.attached = true
	b.logger.Debug("sqlite backend attached", zap.String("data_dir", dataDir))
	return nil
}

// Detach closes the SQLite connection. Idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
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
	return queryRestaurants(ctx, b.db)
}

// Menu returns the store for one restaurant's menu.
func (b *Backend) Menu(ctx context.Context, restaurantID string) (types.MenuStore, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrBackendDetached
	}
	var active bool
	err := b.db.QueryRowContext(ctx,
		"SELECT is_active FROM restaurants WHERE restaurant_id = ?", restaurantID,
	).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("restaurant %q: %w", restaurantID, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting restaurant %s: %w", restaurantID, err)
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

	for _, table := range []string{"custom_categories", "menu_items"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE restaurant_id = ?", r.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO restaurants (restaurant_id, name, address, is_active, position)
VALUES (?, ?, ?, ?, COALESCE((SELECT position FROM restaurants WHERE restaurant_id = ?), (SELECT COUNT(*) FROM restaurants)))
ON CONFLICT(restaurant_id) DO UPDATE SET name = excluded.name, address = excluded.address, is_active = excluded.is_active`,
		r.ID, r.Name, r.Address, boolToInt(r.IsActive), r.ID,
	)
	if err != nil {
		return fmt.Errorf("inserting restaurant %s: %w", r.ID, err)
	}
	if err := upsertItems(ctx, tx, r.ID, items); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	for _, persist := range []func() error{b.persistRestaurantsJSONL, b.persistMenuItemsJSONL, b.persistCustomCategoriesJSONL} {
		if err := persist(); err != nil {
			return err
		}
	}
	b.logger.Debug("restaurant seeded", zap.String("restaurant_id", r.ID), zap.Int("items", len(items)))
	return nil
}

// jsonlPath returns the path of a JSONL file in the attached DataDir.
func (b *Backend) jsonlPath(name string) string {
	return filepath.Join(b.config.DataDir, name)
}
