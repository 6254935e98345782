package app

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/mongo"

	secretsRepository "github.com/allisson/vaultkeeper/internal/secrets/repository"
	signingKeyRepository "github.com/allisson/vaultkeeper/internal/signingkey/repository"
	userRepository "github.com/allisson/vaultkeeper/internal/user/repository"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

// ensureMongoIndexes creates every collection index. The signing key index on
// the active flag backs the conditional rotation write.
func ensureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	for _, repo := range []indexer{
		userRepository.NewMongoDBUserRepository(db),
		signingKeyRepository.NewMongoDBSigningKeyRepository(db),
		secretsRepository.NewMongoDBSecretRepository(db),
	} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}

// readinessPinger returns the store the readiness probe pings.
func (c *Container) readinessPinger() (pinger, error) {
	if c.IsMongoDB() {
		return c.mongoStore()
	}
	return c.DB()
}
