package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MenuItem is a single dish on a restaurant menu.
// Only IsAvailable changes after the catalog is loaded.
type MenuItem struct {
	ID          string          `json:"item_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`     // Primary category label.
	Price       decimal.Decimal `json:"price"`        // Non-negative, currency agnostic.
	IsAvailable bool            `json:"is_available"` // False means the item is on the stop-list.
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"` // Opaque image reference.
}

// Validate checks the fields a catalog relies on.
// Returns ErrInvalidID, ErrInvalidName or ErrInvalidPrice.
func (m MenuItem) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return ErrInvalidID
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrInvalidName
	}
	if m.Price.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// Status returns a short human-readable availability label.
func (m MenuItem) Status() string {
	if m.IsAvailable {
		return "available"
	}
	return "stopped"
}
