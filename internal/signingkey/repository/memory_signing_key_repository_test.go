package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

func TestMemorySigningKeyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySigningKeyRepository()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.GetActive(ctx)
	assert.ErrorIs(t, err, signingKeyDomain.ErrSigningKeyNotFound)

	first := &signingKeyDomain.SigningKey{ID: uuid.Must(uuid.NewV7()), CreatedAt: base}
	won, err := repo.SwapActive(ctx, first, base.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, won)

	t.Run("fresh active key blocks candidate", func(t *testing.T) {
		candidate := &signingKeyDomain.SigningKey{ID: uuid.Must(uuid.NewV7()), CreatedAt: base.Add(time.Hour)}
		won, err := repo.SwapActive(ctx, candidate, base.Add(-23*time.Hour))
		require.NoError(t, err)
		assert.False(t, won)
		assert.Equal(t, 1, repo.Len())
	})

	t.Run("stale active key is retired", func(t *testing.T) {
		second := &signingKeyDomain.SigningKey{ID: uuid.Must(uuid.NewV7()), CreatedAt: base.Add(25 * time.Hour)}
		won, err := repo.SwapActive(ctx, second, base.Add(time.Hour))
		require.NoError(t, err)
		assert.True(t, won)

		active, err := repo.GetActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)

		retired, err := repo.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, retired.Active)

		keys, err := repo.ListSince(ctx, base.Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, keys, 2)
		assert.Equal(t, second.ID, keys[0].ID)

		keys, err = repo.ListSince(ctx, base.Add(24*time.Hour))
		require.NoError(t, err)
		require.Len(t, keys, 1)
		assert.Equal(t, second.ID, keys[0].ID)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.GetActive(cancelled)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
