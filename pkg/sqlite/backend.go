// Package sqlite exposes the SQLite stop-list backend to other modules
// while keeping its implementation internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/internal/sqlite"
	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// NewBackend creates a detached SQLite backend that logs to logger, or to
// zap.L() when logger is nil.
//
// Example:
//
//	backend := sqlite.NewBackend(nil)
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: "/var/lib/stoplist",
//	})
//	defer backend.Detach()
func NewBackend(logger *zap.Logger) types.Backend {
	if logger == nil {
		return sqlite.NewBackend()
	}
	return sqlite.NewBackend(sqlite.WithLogger(logger))
}
