package app

import (
	"fmt"

	userHTTP "github.com/allisson/vaultkeeper/internal/user/http"
	userRepository "github.com/allisson/vaultkeeper/internal/user/repository"
	userService "github.com/allisson/vaultkeeper/internal/user/service"
	userUseCase "github.com/allisson/vaultkeeper/internal/user/usecase"
)

type userComponents struct {
	passwordHasher lazy[userService.PasswordHasher]
	userRepo       lazy[userUseCase.UserRepository]
	userUseCase    lazy[userUseCase.UseCase]
	userHandler    lazy[*userHTTP.UserHandler]
}

// PasswordHasher returns the argon2id password hasher.
func (c *Container) PasswordHasher() (userService.PasswordHasher, error) {
	return c.passwordHasher.get(func() (userService.PasswordHasher, error) {
		hasher, err := userService.NewPasswordHasher()
		if err != nil {
			return nil, fmt.Errorf("failed to create password hasher: %w", err)
		}
		return hasher, nil
	})
}

// UserRepository returns the user repository for the configured driver.
func (c *Container) UserRepository() (userUseCase.UserRepository, error) {
	return c.userRepo.get(func() (userUseCase.UserRepository, error) {
		if c.IsMongoDB() {
			db, err := c.MongoDatabase()
			if err != nil {
				return nil, err
			}
			return userRepository.NewMongoDBUserRepository(db), nil
		}

		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for user repository: %w", err)
		}
		if c.config.DBDriver == "mysql" {
			return userRepository.NewMySQLUserRepository(db), nil
		}
		return userRepository.NewPostgreSQLUserRepository(db), nil
	})
}

// UserUseCase returns the user use case wrapped with metrics.
func (c *Container) UserUseCase() (userUseCase.UseCase, error) {
	return c.userUseCase.get(func() (userUseCase.UseCase, error) {
		txManager, err := c.TxManager()
		if err != nil {
			return nil, err
		}
		repo, err := c.UserRepository()
		if err != nil {
			return nil, err
		}
		hasher, err := c.PasswordHasher()
		if err != nil {
			return nil, err
		}
		bizMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}

		useCase := userUseCase.NewUserUseCase(txManager, repo, hasher)
		return userUseCase.NewUserUseCaseWithMetrics(useCase, bizMetrics), nil
	})
}

// UserHandler returns the HTTP handler for user registration.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	return c.userHandler.get(func() (*userHTTP.UserHandler, error) {
		useCase, err := c.UserUseCase()
		if err != nil {
			return nil, err
		}
		return userHTTP.NewUserHandler(useCase, c.Logger()), nil
	})
}
