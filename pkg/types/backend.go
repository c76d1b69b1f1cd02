package types

import "context"

// Backend is a storage backend holding restaurants and their menus.
// Callers attach to a backend, open menus by restaurant, and detach when done.
type Backend interface {
	// Attach connects the backend described by config.
	// Returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, operations return ErrBackendDetached.
	Detach() error

	// Restaurants lists all restaurants in insertion order.
	Restaurants(ctx context.Context) ([]Restaurant, error)

	// Menu returns the store for one restaurant's menu.
	// Returns ErrNotFound for an unknown restaurant and ErrRestaurantInactive
	// for an inactive one.
	Menu(ctx context.Context, restaurantID string) (MenuStore, error)

	// Seed inserts a restaurant with its menu, replacing any previous
	// restaurant with the same ID.
	Seed(ctx context.Context, restaurant Restaurant, items []MenuItem) error
}

// MenuStore persists one restaurant's items and custom categories.
type MenuStore interface {
	Persister
	CategoryPersister

	// Items returns the stored items in menu order.
	Items(ctx context.Context) ([]MenuItem, error)

	// Categories returns the stored custom categories in creation order.
	Categories(ctx context.Context) ([]CustomCategory, error)
}
