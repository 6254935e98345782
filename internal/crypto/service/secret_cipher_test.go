package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
)

func newTestCipher(t *testing.T, passphrase string) *SecretCipher {
	t.Helper()
	c, err := NewSecretCipher([]byte(passphrase), []byte("0000000000000001"))
	require.NoError(t, err)
	return c
}

func TestNewSecretCipher(t *testing.T) {
	_, err := NewSecretCipher(nil, []byte("salt"))
	assert.ErrorIs(t, err, cryptoDomain.ErrMalformedInput)

	_, err = NewSecretCipher([]byte("pass"), nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrMalformedInput)

	passphrase := []byte("pass")
	c, err := NewSecretCipher(passphrase, []byte("salt"))
	require.NoError(t, err)

	passphrase[0] = 'X'
	assert.Equal(t, []byte("pass"), c.passphrase)
}

func TestSecretCipher_SealOpen(t *testing.T) {
	c := newTestCipher(t, "correct horse")

	blob, err := c.Seal([]byte("db-password"))
	require.NoError(t, err)
	assert.Len(t, blob, cryptoDomain.NonceSize+len("db-password")+cryptoDomain.TagSize)

	plaintext, err := c.Open(blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("db-password"), plaintext)
}

func TestSecretCipher_SealIsInteroperableWithDeriveKey(t *testing.T) {
	c := newTestCipher(t, "correct horse")

	blob, err := c.Seal([]byte("value"))
	require.NoError(t, err)

	key, err := DeriveKey([]byte("correct horse"), []byte("0000000000000001"))
	require.NoError(t, err)

	plaintext, err := Decrypt(key, blob)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), plaintext)
}

func TestSecretCipher_WrongPassphrase(t *testing.T) {
	blob, err := newTestCipher(t, "correct horse").Seal([]byte("value"))
	require.NoError(t, err)

	plaintext, err := newTestCipher(t, "battery staple").Open(blob)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	assert.Nil(t, plaintext)
}

func TestSecretCipher_Close(t *testing.T) {
	c := newTestCipher(t, "correct horse")
	c.Close()
	assert.Equal(t, make([]byte, len("correct horse")), c.passphrase)
}
