package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/stoplist/internal/catalog"
	"github.com/mesh-intelligence/stoplist/internal/notify"
	"github.com/mesh-intelligence/stoplist/internal/paths"
	"github.com/mesh-intelligence/stoplist/internal/postgres"
	"github.com/mesh-intelligence/stoplist/internal/sqlite"
	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// attachBackend builds the configured backend and attaches it. The caller
// must call Detach.
func (a *app) attachBackend() (types.Backend, error) {
	cfg := types.Config{Backend: a.cfg.GetString(cfgKeyBackend)}

	var backend types.Backend
	switch cfg.Backend {
	case types.BackendPostgres:
		cfg.DSN = a.cfg.GetString(cfgKeyDSN)
		backend = postgres.NewBackend(postgres.WithLogger(a.logger))
	case types.BackendSQLite:
		dataDir, err := a.dataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dataDir
		backend = sqlite.NewBackend(sqlite.WithLogger(a.logger))
	default:
		return nil, userErrorf("backend %q: %w", cfg.Backend, cfg.Validate())
	}

	if err := backend.Attach(cfg); err != nil {
		if errors.Is(err, types.ErrDSNEmpty) {
			return nil, userError{err: err}
		}
		return nil, fmt.Errorf("attach backend: %w", err)
	}
	return backend, nil
}

// dataDir resolves the sqlite data directory: flag > config.yaml > env >
// platform default.
func (a *app) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dir, nil
}

// restaurant picks the restaurant to work on: flag > config > the first
// active restaurant in the backend.
func (a *app) restaurant(ctx context.Context, backend types.Backend) (types.Restaurant, error) {
	restaurants, err := backend.Restaurants(ctx)
	if err != nil {
		return types.Restaurant{}, fmt.Errorf("list restaurants: %w", err)
	}

	id := a.flags.restaurant
	if id == "" {
		id = a.cfg.GetString(cfgKeyRestaurant)
	}
	for _, r := range restaurants {
		if id == "" && r.IsActive {
			return r, nil
		}
		if r.ID == id {
			if !r.IsActive {
				return types.Restaurant{}, userErrorf("restaurant %q: %w", id, types.ErrRestaurantInactive)
			}
			return r, nil
		}
	}
	if id == "" {
		return types.Restaurant{}, userErrorf("no active restaurant; run \"stoplist init --demo\" to load sample data")
	}
	return types.Restaurant{}, userErrorf("restaurant %q: %w", id, types.ErrNotFound)
}

// session is an engine bound to one restaurant's menu store.
type session struct {
	restaurant types.Restaurant
	engine     *catalog.Engine
}

// openSession loads the selected restaurant's menu into an engine whose
// notifications go to the command's error stream and the log.
func (a *app) openSession(ctx context.Context, backend types.Backend, n types.Notifier) (*session, error) {
	r, err := a.restaurant(ctx, backend)
	if err != nil {
		return nil, err
	}
	store, err := backend.Menu(ctx, r.ID)
	if err != nil {
		return nil, fmt.Errorf("open menu: %w", err)
	}
	items, err := store.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	categories, err := store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	engine, err := catalog.New(items, categories,
		catalog.WithPersister(store),
		catalog.WithNotifier(notify.Multi(n, notify.NewZap(a.logger))),
		catalog.WithLogger(a.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return &session{restaurant: r, engine: engine}, nil
}
