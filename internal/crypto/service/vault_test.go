package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
)

func TestVault_AddGetRemove(t *testing.T) {
	v := NewVault(newTestCipher(t, "correct horse"))

	require.NoError(t, v.AddSecret("db", []byte("postgres://u:p@h/db")))
	require.NoError(t, v.AddSecret("api", []byte("token-123")))
	assert.Equal(t, []string{"api", "db"}, v.Names())

	got, err := v.GetSecret("db")
	require.NoError(t, err)
	assert.Equal(t, []byte("postgres://u:p@h/db"), got)

	assert.NotContains(t, string(v.entries["db"]), "postgres://")

	require.NoError(t, v.RemoveSecret("db"))
	_, err = v.GetSecret("db")
	assert.ErrorIs(t, err, cryptoDomain.ErrVaultEntryNotFound)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, v.RemoveSecret("db"), cryptoDomain.ErrVaultEntryNotFound)
	assert.ErrorIs(t, v.AddSecret("", []byte("x")), cryptoDomain.ErrMalformedInput)
}

func TestVault_BinaryRoundTrip(t *testing.T) {
	c := newTestCipher(t, "correct horse")
	v := NewVault(c)
	require.NoError(t, v.AddSecret("a", []byte("alpha")))
	require.NoError(t, v.AddSecret("b", []byte("")))

	data, err := v.MarshalBinary()
	require.NoError(t, err)

	restored := NewVault(c)
	require.NoError(t, restored.UnmarshalBinary(data))
	assert.Equal(t, v.Names(), restored.Names())

	alpha, err := restored.GetSecret("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), alpha)

	empty, err := restored.GetSecret("b")
	require.NoError(t, err)
	assert.Empty(t, empty)

	again, err := restored.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestVault_UnmarshalBinaryRejectsGarbage(t *testing.T) {
	v := NewVault(newTestCipher(t, "correct horse"))
	require.NoError(t, v.AddSecret("keep", []byte("me")))

	assert.ErrorIs(t, v.UnmarshalBinary([]byte("not a vault")), cryptoDomain.ErrVaultCorrupted)
	assert.ErrorIs(t, v.UnmarshalBinary(nil), cryptoDomain.ErrVaultCorrupted)

	assert.Equal(t, []string{"keep"}, v.Names())
}

func TestVault_WrongPassphraseAfterReload(t *testing.T) {
	v := NewVault(newTestCipher(t, "correct horse"))
	require.NoError(t, v.AddSecret("a", []byte("alpha")))
	data, err := v.MarshalBinary()
	require.NoError(t, err)

	other := NewVault(newTestCipher(t, "battery staple"))
	require.NoError(t, other.UnmarshalBinary(data))

	_, err = other.GetSecret("a")
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestVault_SaveAndLoadFile(t *testing.T) {
	c := newTestCipher(t, "correct horse")
	path := filepath.Join(t.TempDir(), "secrets.vault")

	t.Run("missing file loads empty vault", func(t *testing.T) {
		v, err := LoadVaultFile(path, c)
		require.NoError(t, err)
		assert.Empty(t, v.Names())
	})

	t.Run("save then load", func(t *testing.T) {
		v := NewVault(c)
		require.NoError(t, v.AddSecret("smtp", []byte("hunter2")))
		require.NoError(t, v.SaveToFile(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		loaded, err := LoadVaultFile(path, c)
		require.NoError(t, err)
		got, err := loaded.GetSecret("smtp")
		require.NoError(t, err)
		assert.Equal(t, []byte("hunter2"), got)
	})

	t.Run("corrupted file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.vault")
		require.NoError(t, os.WriteFile(bad, []byte{0x01, 0x02}, 0o600))

		_, err := LoadVaultFile(bad, c)
		assert.ErrorIs(t, err, cryptoDomain.ErrVaultCorrupted)
	})
}

func TestVault_ConcurrentAccess(t *testing.T) {
	v := NewVault(newTestCipher(t, "correct horse"))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := string(rune('a' + i))
			assert.NoError(t, v.AddSecret(name, []byte(name)))
			got, err := v.GetSecret(name)
			assert.NoError(t, err)
			assert.Equal(t, []byte(name), got)
		}(i)
	}
	wg.Wait()

	assert.Len(t, v.Names(), 8)
}
