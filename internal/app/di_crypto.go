package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/allisson/vaultkeeper/internal/crypto/domain"
	cryptoService "github.com/allisson/vaultkeeper/internal/crypto/service"
)

type cryptoComponents struct {
	secretCipher lazy[*cryptoService.SecretCipher]
}

// SecretCipher returns the passphrase-derived cipher shared by secrets and
// signing keys. With KMS_KEY_URI set, ENCRYPTION_PASSPHRASE is unwrapped first.
func (c *Container) SecretCipher(ctx context.Context) (*cryptoService.SecretCipher, error) {
	return c.secretCipher.get(func() (*cryptoService.SecretCipher, error) {
		salt, err := c.config.Salt()
		if err != nil {
			return nil, err
		}

		passphrase, err := c.passphrase(ctx)
		if err != nil {
			return nil, err
		}
		defer cryptoDomain.Zero(passphrase)

		cipher, err := cryptoService.NewSecretCipher(passphrase, salt)
		if err != nil {
			return nil, fmt.Errorf("failed to create secret cipher: %w", err)
		}
		return cipher, nil
	})
}

func (c *Container) passphrase(ctx context.Context) ([]byte, error) {
	if c.config.KMSKeyURI == "" {
		return []byte(c.config.EncryptionPassphrase), nil
	}

	passphrase, err := cryptoService.NewKMSService().
		UnwrapPassphrase(ctx, c.config.KMSKeyURI, c.config.EncryptionPassphrase)
	if err != nil {
		return nil, err
	}
	c.Logger().Info("encryption passphrase unwrapped through KMS")
	return passphrase, nil
}
