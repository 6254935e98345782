package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	cryptoService "github.com/allisson/vaultkeeper/internal/crypto/service"
	"github.com/allisson/vaultkeeper/internal/database"
	secretsDomain "github.com/allisson/vaultkeeper/internal/secrets/domain"
	appValidation "github.com/allisson/vaultkeeper/internal/validation"
)

// MaxSecretSize bounds a single secret value.
const MaxSecretSize = 64 * 1024

// secretUseCase implements the SecretUseCase interface for managing secrets.
type secretUseCase struct {
	txManager  database.TxManager
	secretRepo SecretRepository
	cipher     cryptoService.Cipher
}

type createSecretInput struct {
	Owner string
	Name  string
	Value []byte
}

func (in *createSecretInput) validate() error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Owner, validation.Required.Error("owner is required"), appValidation.NotBlank),
		validation.Field(&in.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			appValidation.NoWhitespace,
			appValidation.SecretName,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&in.Value,
			validation.Required.Error("value is required"),
			validation.Length(1, MaxSecretSize).Error("value must be at most 64 KiB"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// Create seals value and stores it under name for owner.
func (s *secretUseCase) Create(
	ctx context.Context,
	owner, name string,
	value []byte,
) (*secretsDomain.Secret, error) {
	input := createSecretInput{Owner: owner, Name: name, Value: value}
	if err := input.validate(); err != nil {
		return nil, err
	}

	ciphertext, err := s.cipher.Seal(value)
	if err != nil {
		return nil, err
	}

	secret := &secretsDomain.Secret{
		ID:         uuid.Must(uuid.NewV7()),
		Name:       name,
		Owner:      owner,
		Ciphertext: ciphertext,
		CreatedAt:  time.Now().UTC(),
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		return s.secretRepo.Create(txCtx, secret)
	})
	if err != nil {
		return nil, err
	}

	return secret, nil
}

// Get retrieves a secret and opens its ciphertext. A wrong passphrase and a
// tampered record both surface as ErrDecryptionFailed.
func (s *secretUseCase) Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	secret, err := s.secretRepo.Get(ctx, secretID)
	if err != nil {
		return nil, err
	}

	plaintext, err := s.cipher.Open(secret.Ciphertext)
	if err != nil {
		return nil, err
	}
	secret.Plaintext = plaintext

	return secret, nil
}

// List retrieves secret metadata ordered newest first with pagination.
func (s *secretUseCase) List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error) {
	return s.secretRepo.List(ctx, offset, limit)
}

// ListByOwner retrieves the metadata of every secret owned by owner.
func (s *secretUseCase) ListByOwner(ctx context.Context, owner string) ([]*secretsDomain.Secret, error) {
	return s.secretRepo.ListByOwner(ctx, owner)
}

// Delete removes a secret permanently.
func (s *secretUseCase) Delete(ctx context.Context, secretID uuid.UUID) error {
	return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.secretRepo.Get(txCtx, secretID); err != nil {
			return err
		}
		return s.secretRepo.Delete(txCtx, secretID)
	})
}

// NewSecretUseCase creates a new secret use case instance.
func NewSecretUseCase(
	txManager database.TxManager,
	secretRepo SecretRepository,
	cipher cryptoService.Cipher,
) SecretUseCase {
	return &secretUseCase{
		txManager:  txManager,
		secretRepo: secretRepo,
		cipher:     cipher,
	}
}
