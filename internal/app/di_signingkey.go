package app

import (
	"context"
	"fmt"

	signingKeyRepository "github.com/allisson/vaultkeeper/internal/signingkey/repository"
	signingKeyService "github.com/allisson/vaultkeeper/internal/signingkey/service"
	signingKeyUseCase "github.com/allisson/vaultkeeper/internal/signingkey/usecase"
)

type signingKeyComponents struct {
	signingKeyRepo lazy[signingKeyUseCase.SigningKeyRepository]
	keyLifecycle   lazy[signingKeyUseCase.KeyLifecycleUseCase]
}

// SigningKeyRepository returns the signing key repository for the configured driver.
func (c *Container) SigningKeyRepository() (signingKeyUseCase.SigningKeyRepository, error) {
	return c.signingKeyRepo.get(func() (signingKeyUseCase.SigningKeyRepository, error) {
		if c.IsMongoDB() {
			db, err := c.MongoDatabase()
			if err != nil {
				return nil, err
			}
			return signingKeyRepository.NewMongoDBSigningKeyRepository(db), nil
		}

		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for signing key repository: %w", err)
		}
		if c.config.DBDriver == "mysql" {
			return signingKeyRepository.NewMySQLSigningKeyRepository(db), nil
		}
		return signingKeyRepository.NewPostgreSQLSigningKeyRepository(db), nil
	})
}

// KeyLifecycleUseCase returns the signing key manager wrapped with metrics.
// Private keys are sealed with the same cipher as secrets.
func (c *Container) KeyLifecycleUseCase(ctx context.Context) (signingKeyUseCase.KeyLifecycleUseCase, error) {
	return c.keyLifecycle.get(func() (signingKeyUseCase.KeyLifecycleUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, err
		}
		repo, err := c.SigningKeyRepository()
		if err != nil {
			return nil, err
		}
		cipher, err := c.SecretCipher(ctx)
		if err != nil {
			return nil, err
		}
		bizMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}

		useCase := signingKeyUseCase.NewKeyLifecycleUseCase(
			txManager,
			repo,
			cipher,
			signingKeyService.NewEd25519KeyGenerator(nil),
			c.config.SigningKeyRotationWindow,
		)
		return signingKeyUseCase.NewKeyLifecycleUseCaseWithMetrics(useCase, bizMetrics), nil
	})
}
