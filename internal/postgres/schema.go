package postgres

// schemaStatements creates the tables if they are missing. Unlike the SQLite
// backend, Postgres is the source of truth and is never rebuilt.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		restaurant_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		restaurant_id TEXT NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
		item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		price TEXT NOT NULL DEFAULT '0',
		is_available BOOLEAN NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		PRIMARY KEY (restaurant_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS custom_categories (
		restaurant_id TEXT NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
		category_id TEXT NOT NULL,
		name TEXT NOT NULL,
		item_ids TEXT[] NOT NULL DEFAULT '{}',
		position INTEGER NOT NULL,
		PRIMARY KEY (restaurant_id, category_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_menu_items_position ON menu_items(restaurant_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_custom_categories_position ON custom_categories(restaurant_id, position)`,
}
