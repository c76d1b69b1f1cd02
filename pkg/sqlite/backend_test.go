package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

func TestNewBackend(t *testing.T) {
	for _, logger := range []*zap.Logger{nil, zap.NewNop()} {
		b := NewBackend(logger)
		require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))

		restaurants, err := b.Restaurants(context.Background())
		require.NoError(t, err)
		assert.Empty(t, restaurants)
		require.NoError(t, b.Detach())
	}
}
