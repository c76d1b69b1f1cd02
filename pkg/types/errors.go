package types

import "errors"

// Catalog operation errors.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("entity not found")
	ErrPersistenceFailure = errors.New("persistence failed")
)

// Entity errors. Category creation failures wrap ErrValidation as well.
var (
	ErrInvalidID    = errors.New("invalid entity ID")
	ErrInvalidName  = errors.New("name must not be empty")
	ErrInvalidPrice = errors.New("price must not be negative")
	ErrNoMembers    = errors.New("category must contain at least one item")
	ErrDuplicateID  = errors.New("duplicate item ID")
)

// Backend lifecycle errors.
var (
	ErrBackendDetached    = errors.New("backend is detached")
	ErrAlreadyAttached    = errors.New("backend is already attached")
	ErrRestaurantInactive = errors.New("restaurant is inactive")
)
