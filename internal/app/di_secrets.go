package app

import (
	"context"
	"fmt"

	secretsHTTP "github.com/allisson/vaultkeeper/internal/secrets/http"
	secretsRepository "github.com/allisson/vaultkeeper/internal/secrets/repository"
	secretsUseCase "github.com/allisson/vaultkeeper/internal/secrets/usecase"
)

type secretComponents struct {
	secretRepo    lazy[secretsUseCase.SecretRepository]
	secretUseCase lazy[secretsUseCase.SecretUseCase]
	secretHandler lazy[*secretsHTTP.SecretHandler]
}

// SecretRepository returns the secret repository for the configured driver.
func (c *Container) SecretRepository() (secretsUseCase.SecretRepository, error) {
	return c.secretRepo.get(func() (secretsUseCase.SecretRepository, error) {
		if c.IsMongoDB() {
			db, err := c.MongoDatabase()
			if err != nil {
				return nil, err
			}
			return secretsRepository.NewMongoDBSecretRepository(db), nil
		}

		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for secret repository: %w", err)
		}
		if c.config.DBDriver == "mysql" {
			return secretsRepository.NewMySQLSecretRepository(db), nil
		}
		return secretsRepository.NewPostgreSQLSecretRepository(db), nil
	})
}

// SecretUseCase returns the secret use case wrapped with metrics.
func (c *Container) SecretUseCase(ctx context.Context) (secretsUseCase.SecretUseCase, error) {
	return c.secretUseCase.get(func() (secretsUseCase.SecretUseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, err
		}
		repo, err := c.SecretRepository()
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

		useCase := secretsUseCase.NewSecretUseCase(txManager, repo, cipher)
		return secretsUseCase.NewSecretUseCaseWithMetrics(useCase, bizMetrics), nil
	})
}

// SecretHandler returns the HTTP handler for secret management.
func (c *Container) SecretHandler(ctx context.Context) (*secretsHTTP.SecretHandler, error) {
	return c.secretHandler.get(func() (*secretsHTTP.SecretHandler, error) {
		useCase, err := c.SecretUseCase(ctx)
		if err != nil {
			return nil, err
		}
		return secretsHTTP.NewSecretHandler(useCase, c.Logger()), nil
	})
}
