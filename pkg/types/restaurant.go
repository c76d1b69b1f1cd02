package types

// Restaurant is a point of sale that owns one menu.
type Restaurant struct {
	ID       string `json:"restaurant_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	IsActive bool   `json:"is_active"` // Inactive restaurants cannot be managed.
}
