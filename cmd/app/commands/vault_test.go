package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/vaultkeeper/internal/crypto/service"
)

func newTestCipher(t *testing.T, passphrase string) *cryptoService.SecretCipher {
	t.Helper()
	cipher, err := cryptoService.NewSecretCipher([]byte(passphrase), []byte("0123456789abcdef"))
	require.NoError(t, err)
	return cipher
}

func TestVaultCommands(t *testing.T) {
	logger := slog.Default()
	cipher := newTestCipher(t, "correct horse battery staple")
	path := filepath.Join(t.TempDir(), "secrets.vault")

	require.NoError(t, RunVaultPut(cipher, logger, path, "db-password", "hunter2", IOTuple{}))
	require.NoError(t, RunVaultPut(cipher, logger, path, "api-key", "", IOTuple{
		Reader: strings.NewReader("sk-123\n"),
		Writer: &bytes.Buffer{},
	}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	t.Run("get", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunVaultGet(cipher, path, "db-password", IOTuple{Writer: &out}))
		assert.Equal(t, "hunter2\n", out.String())

		out.Reset()
		require.NoError(t, RunVaultGet(cipher, path, "api-key", IOTuple{Writer: &out}))
		assert.Equal(t, "sk-123\n", out.String())
	})

	t.Run("list text", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunVaultList(cipher, path, "text", IOTuple{Writer: &out}))
		assert.Equal(t, "api-key\ndb-password\n", out.String())
	})

	t.Run("list json", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunVaultList(cipher, path, "json", IOTuple{Writer: &out}))

		var names []string
		require.NoError(t, json.Unmarshal(out.Bytes(), &names))
		assert.Equal(t, []string{"api-key", "db-password"}, names)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		var out bytes.Buffer
		err := RunVaultGet(newTestCipher(t, "wrong"), path, "db-password", IOTuple{Writer: &out})
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
		assert.Empty(t, out.String())
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, RunVaultRemove(cipher, logger, path, "api-key"))

		err := RunVaultGet(cipher, path, "api-key", IOTuple{Writer: &bytes.Buffer{}})
		assert.ErrorIs(t, err, cryptoDomain.ErrVaultEntryNotFound)

		err = RunVaultRemove(cipher, logger, path, "api-key")
		assert.ErrorIs(t, err, cryptoDomain.ErrVaultEntryNotFound)
	})

	t.Run("missing file lists nothing", func(t *testing.T) {
		var out bytes.Buffer
		missing := filepath.Join(t.TempDir(), "none.vault")
		require.NoError(t, RunVaultList(cipher, missing, "text", IOTuple{Writer: &out}))
		assert.Empty(t, out.String())
	})

	t.Run("corrupted file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.vault")
		require.NoError(t, os.WriteFile(bad, []byte("not a vault"), 0o600))

		err := RunVaultList(cipher, bad, "text", IOTuple{Writer: &bytes.Buffer{}})
		assert.ErrorIs(t, err, cryptoDomain.ErrVaultCorrupted)
	})
}
