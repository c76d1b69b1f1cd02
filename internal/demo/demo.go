// Package demo holds the sample restaurants and menu used by "stoplist init
// --demo" and by storage tests.
package demo

import (
	"github.com/shopspring/decimal"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

const placeholderImage = "/api/placeholder/120/80"

// Restaurants returns the demo restaurants. The third one is inactive.
func Restaurants() []types.Restaurant {
	return []types.Restaurant{
		{ID: "1", Name: "Central Restaurant", Address: "15 Lenin St", IsActive: true},
		{ID: "2", Name: "Embankment Cafe", Address: "8 Embankment", IsActive: true},
		{ID: "3", Name: "European Bistro", Address: "42 Peace Ave", IsActive: false},
		{ID: "4", Name: "Family Restaurant", Address: "23 Pushkin St", IsActive: true},
	}
}

// Menu returns a fresh copy of the demo menu.
func Menu() []types.MenuItem {
	item := func(id, name, category string, price int64, available bool) types.MenuItem {
		return types.MenuItem{
			ID:          id,
			Name:        name,
			Category:    category,
			Price:       decimal.NewFromInt(price),
			IsAvailable: available,
			Image:       placeholderImage,
		}
	}
	items := []types.MenuItem{
		item("1", "Ukrainian borscht", "Soups", 450, true),
		item("2", "Meat solyanka", "Soups", 520, false),
		item("3", "Chicken Caesar", "Salads", 680, true),
		item("4", "Greek salad", "Salads", 590, true),
		item("5", "Beef steak", "Mains", 1850, false),
		item("6", "Salmon fillet", "Mains", 1420, true),
		item("7", "Pasta carbonara", "Mains", 780, true),
		item("8", "Tiramisu", "Desserts", 420, true),
		item("9", "Cheesecake", "Desserts", 380, false),
		item("10", "Bruschetta", "Starters", 320, true),
	}
	items[0].Description = "With beef and sour cream"
	return items
}
