package sqlite

// Schema DDL. SQLite is rebuilt from the JSONL files on every Attach.
const (
	createRestaurants = `CREATE TABLE restaurants (
    restaurant_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    address TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    position INTEGER NOT NULL
);`

	createMenuItems = `CREATE TABLE menu_items (
    restaurant_id TEXT NOT NULL,
    item_id TEXT NOT NULL,
    name TEXT NOT NULL,
    category TEXT NOT NULL,
    price TEXT NOT NULL DEFAULT '0',
    is_available INTEGER NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    image TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    PRIMARY KEY (restaurant_id, item_id),
    FOREIGN KEY (restaurant_id) REFERENCES restaurants(restaurant_id)
);`

	createCustomCategories = `CREATE TABLE custom_categories (
    restaurant_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    name TEXT NOT NULL,
    item_ids TEXT NOT NULL DEFAULT '[]',
    position INTEGER NOT NULL,
    PRIMARY KEY (restaurant_id, category_id),
    FOREIGN KEY (restaurant_id) REFERENCES restaurants(restaurant_id)
);`

	createIndexes = `
CREATE INDEX idx_menu_items_position ON menu_items(restaurant_id, position);
CREATE INDEX idx_custom_categories_position ON custom_categories(restaurant_id, position);
`
)

// schemaStatements lists the DDL in execution order.
var schemaStatements = []string{
	createRestaurants,
	createMenuItems,
	createCustomCategories,
	createIndexes,
}

// JSONL file names in DataDir.
const (
	restaurantsJSONL      = "restaurants.jsonl"
	menuItemsJSONL        = "menu_items.jsonl"
	customCategoriesJSONL = "custom_categories.jsonl"
)
