package usecase

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	cryptoService "github.com/allisson/vaultkeeper/internal/crypto/service"
	"github.com/allisson/vaultkeeper/internal/database"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
	"github.com/allisson/vaultkeeper/internal/signingkey/repository"
	signingKeyService "github.com/allisson/vaultkeeper/internal/signingkey/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockSigningKeyRepository struct {
	mock.Mock
}

func (m *mockSigningKeyRepository) GetActive(ctx context.Context) (*signingKeyDomain.SigningKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signingKeyDomain.SigningKey), args.Error(1)
}

func (m *mockSigningKeyRepository) Get(ctx context.Context, keyID uuid.UUID) (*signingKeyDomain.SigningKey, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*signingKeyDomain.SigningKey), args.Error(1)
}

func (m *mockSigningKeyRepository) ListSince(
	ctx context.Context,
	since time.Time,
) ([]*signingKeyDomain.SigningKey, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*signingKeyDomain.SigningKey), args.Error(1)
}

func (m *mockSigningKeyRepository) SwapActive(
	ctx context.Context,
	candidate *signingKeyDomain.SigningKey,
	cutoff time.Time,
) (bool, error) {
	args := m.Called(ctx, candidate, cutoff)
	return args.Bool(0), args.Error(1)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

// clock is a settable time source shared by the use case under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCipher(t *testing.T, passphrase string) *cryptoService.SecretCipher {
	t.Helper()
	cipher, err := cryptoService.NewSecretCipher([]byte(passphrase), []byte("0000000000000001"))
	require.NoError(t, err)
	return cipher
}

type fixture struct {
	repo    *repository.MemorySigningKeyRepository
	clock   *clock
	useCase KeyLifecycleUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:  repository.NewMemorySigningKeyRepository(),
		clock: &clock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.useCase = NewKeyLifecycleUseCase(
		database.NewNoopTxManager(),
		f.repo,
		newTestCipher(t, "correct horse"),
		signingKeyService.NewEd25519KeyGenerator(nil),
		24*time.Hour,
		WithClock(f.clock.Now),
	)
	return f
}

func TestKeyLifecycleUseCase_GetOrCreateActive(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store creates and persists a key", func(t *testing.T) {
		f := newFixture(t)

		material, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, f.clock.Now(), material.CreatedAt)
		assert.Equal(t, 1, f.repo.Len())

		stored, err := f.repo.GetActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, material.ID, stored.ID)
		assert.Equal(t, []byte(material.PublicKey), stored.PublicKey)
		assert.False(t, bytes.Contains(stored.PrivateKeyCiphertext, material.PrivateKey.Seed()))
	})

	t.Run("fresh key is reused", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)

		f.clock.Advance(10 * time.Hour)
		second, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.PrivateKey, second.PrivateKey)
		assert.Equal(t, 1, f.repo.Len())
	})

	t.Run("stale key is rotated", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)

		f.clock.Advance(25 * time.Hour)
		second, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, 2, f.repo.Len())

		retired, err := f.repo.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.False(t, retired.Active)
	})

	t.Run("key exactly one window old is rotated", func(t *testing.T) {
		f := newFixture(t)

		first, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)

		f.clock.Advance(24 * time.Hour)
		second, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("generation failure persists nothing", func(t *testing.T) {
		repo := repository.NewMemorySigningKeyRepository()
		useCase := NewKeyLifecycleUseCase(
			database.NewNoopTxManager(),
			repo,
			newTestCipher(t, "correct horse"),
			signingKeyService.NewEd25519KeyGenerator(failingReader{}),
			24*time.Hour,
		)

		material, err := useCase.GetOrCreateActive(ctx)
		assert.Nil(t, material)
		assert.ErrorIs(t, err, signingKeyDomain.ErrKeyGenerationFailed)
		assert.Equal(t, 0, repo.Len())
	})

	t.Run("store read failure", func(t *testing.T) {
		repo := &mockSigningKeyRepository{}
		repo.On("GetActive", ctx).Return(nil, errors.New("connection refused")).Once()

		useCase := NewKeyLifecycleUseCase(
			database.NewNoopTxManager(),
			repo,
			newTestCipher(t, "correct horse"),
			signingKeyService.NewEd25519KeyGenerator(nil),
			24*time.Hour,
		)

		material, err := useCase.GetOrCreateActive(ctx)
		assert.Nil(t, material)
		assert.ErrorIs(t, err, signingKeyDomain.ErrStoreUnavailable)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		repo.AssertExpectations(t)
	})

	t.Run("store write failure", func(t *testing.T) {
		repo := &mockSigningKeyRepository{}
		repo.On("GetActive", ctx).Return(nil, signingKeyDomain.ErrSigningKeyNotFound).Once()
		repo.On("SwapActive", ctx, mock.Anything, mock.Anything).Return(false, errors.New("disk full")).Once()

		useCase := NewKeyLifecycleUseCase(
			database.NewNoopTxManager(),
			repo,
			newTestCipher(t, "correct horse"),
			signingKeyService.NewEd25519KeyGenerator(nil),
			24*time.Hour,
		)

		_, err := useCase.GetOrCreateActive(ctx)
		assert.ErrorIs(t, err, signingKeyDomain.ErrStoreUnavailable)
		repo.AssertExpectations(t)
	})

	t.Run("losing candidate returns the winner", func(t *testing.T) {
		cipher := newTestCipher(t, "correct horse")
		winnerMaterial, err := signingKeyService.NewEd25519KeyGenerator(nil).Generate(time.Now())
		require.NoError(t, err)
		sealed, err := cipher.Seal(winnerMaterial.PrivateKey)
		require.NoError(t, err)
		winner := &signingKeyDomain.SigningKey{
			ID:                   winnerMaterial.ID,
			PublicKey:            winnerMaterial.PublicKey,
			PrivateKeyCiphertext: sealed,
			Active:               true,
			CreatedAt:            winnerMaterial.CreatedAt,
		}

		repo := &mockSigningKeyRepository{}
		repo.On("GetActive", ctx).Return(nil, signingKeyDomain.ErrSigningKeyNotFound).Once()
		repo.On("SwapActive", ctx, mock.MatchedBy(func(candidate *signingKeyDomain.SigningKey) bool {
			return candidate.ID != winner.ID
		}), mock.Anything).Return(false, nil).Once()
		repo.On("GetActive", ctx).Return(winner, nil).Once()

		useCase := NewKeyLifecycleUseCase(
			database.NewNoopTxManager(),
			repo,
			cipher,
			signingKeyService.NewEd25519KeyGenerator(nil),
			24*time.Hour,
		)

		material, err := useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, winner.ID, material.ID)
		assert.Equal(t, winnerMaterial.PrivateKey, material.PrivateKey)
		repo.AssertExpectations(t)
	})

	t.Run("wrong passphrase cannot open stored key", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)

		other := NewKeyLifecycleUseCase(
			database.NewNoopTxManager(),
			f.repo,
			newTestCipher(t, "battery staple"),
			signingKeyService.NewEd25519KeyGenerator(nil),
			24*time.Hour,
			WithClock(f.clock.Now),
		)

		material, err := other.GetOrCreateActive(ctx)
		assert.Nil(t, material)
		assert.ErrorIs(t, err, signingKeyDomain.ErrInvalidKeyMaterial)
	})

	t.Run("cancelled context", func(t *testing.T) {
		f := newFixture(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.useCase.GetOrCreateActive(cancelled)
		assert.ErrorIs(t, err, signingKeyDomain.ErrStoreUnavailable)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, f.repo.Len())
	})
}

func TestKeyLifecycleUseCase_GetOrCreateActive_Concurrent(t *testing.T) {
	const callers = 16
	ctx := context.Background()

	t.Run("empty store yields a single active key", func(t *testing.T) {
		f := newFixture(t)
		ids := make([]uuid.UUID, callers)

		var g errgroup.Group
		for i := range callers {
			g.Go(func() error {
				material, err := f.useCase.GetOrCreateActive(ctx)
				if err != nil {
					return err
				}
				ids[i] = material.ID
				return nil
			})
		}
		require.NoError(t, g.Wait())

		active, err := f.repo.GetActive(ctx)
		require.NoError(t, err)
		for _, id := range ids {
			assert.Equal(t, active.ID, id)
		}

		keys, err := f.repo.ListSince(ctx, time.Time{})
		require.NoError(t, err)
		activeCount := 0
		for _, key := range keys {
			if key.Active {
				activeCount++
			}
		}
		assert.Equal(t, 1, activeCount)
		assert.Equal(t, 1, f.repo.Len())
	})

	t.Run("stale key is rotated once", func(t *testing.T) {
		f := newFixture(t)
		old, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)
		f.clock.Advance(30 * time.Hour)

		ids := make([]uuid.UUID, callers)
		var g errgroup.Group
		for i := range callers {
			g.Go(func() error {
				material, err := f.useCase.GetOrCreateActive(ctx)
				if err != nil {
					return err
				}
				ids[i] = material.ID
				return nil
			})
		}
		require.NoError(t, g.Wait())

		for _, id := range ids {
			assert.Equal(t, ids[0], id)
			assert.NotEqual(t, old.ID, id)
		}
		assert.Equal(t, 2, f.repo.Len())
	})
}

func TestKeyLifecycleUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("retired key stays verifiable", func(t *testing.T) {
		f := newFixture(t)
		first, err := f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)
		f.clock.Advance(25 * time.Hour)
		_, err = f.useCase.GetOrCreateActive(ctx)
		require.NoError(t, err)

		publicKey, err := f.useCase.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.PublicKey, publicKey.Key)
		assert.False(t, publicKey.Active)
	})

	t.Run("unknown key", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.useCase.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, signingKeyDomain.ErrSigningKeyNotFound)
		assert.NotErrorIs(t, err, signingKeyDomain.ErrStoreUnavailable)
	})
}

func TestKeyLifecycleUseCase_ListPublic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.useCase.GetOrCreateActive(ctx)
	require.NoError(t, err)
	f.clock.Advance(25 * time.Hour)
	second, err := f.useCase.GetOrCreateActive(ctx)
	require.NoError(t, err)

	publicKeys, err := f.useCase.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, publicKeys, 2)
	assert.Equal(t, second.ID, publicKeys[0].ID)
	assert.True(t, publicKeys[0].Active)
	assert.Equal(t, first.ID, publicKeys[1].ID)

	f.clock.Advance(48 * time.Hour)
	publicKeys, err = f.useCase.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, publicKeys, 1)
	assert.Equal(t, second.ID, publicKeys[0].ID)
}
