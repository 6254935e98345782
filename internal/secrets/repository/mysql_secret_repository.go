package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/vaultkeeper/internal/database"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	secretsDomain "github.com/allisson/vaultkeeper/internal/secrets/domain"
)

// MySQLSecretRepository implements Secret persistence for MySQL databases.
// UUIDs are stored as BINARY(16).
type MySQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new secret.
func (m *MySQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, m.db)

	id, err := secret.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	query := `INSERT INTO secrets (id, owner, name, ciphertext, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query, id, secret.Owner, secret.Name, secret.Ciphertext, secret.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return secretsDomain.ErrSecretAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret with its ciphertext.
func (m *MySQLSecretRepository) Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := secretID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret id")
	}

	query := `SELECT id, owner, name, ciphertext, created_at
			  FROM secrets
			  WHERE id = ?`

	var secret secretsDomain.Secret
	var rawID []byte
	err = querier.QueryRowContext(ctx, query, id).Scan(
		&rawID,
		&secret.Owner,
		&secret.Name,
		&secret.Ciphertext,
		&secret.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}

	if err := secret.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
	}
	return &secret, nil
}

// List retrieves secret metadata ordered newest first.
func (m *MySQLSecretRepository) List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner, name, created_at
			  FROM secrets
			  ORDER BY created_at DESC, id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	return collectSecrets(rows, scanMySQLMetadata)
}

// ListByOwner retrieves the metadata of all secrets of owner, ordered by name.
func (m *MySQLSecretRepository) ListByOwner(ctx context.Context, owner string) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, owner, name, created_at
			  FROM secrets
			  WHERE owner = ?
			  ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets by owner")
	}
	return collectSecrets(rows, scanMySQLMetadata)
}

// Delete removes a secret. Deleting a missing id returns ErrSecretNotFound.
func (m *MySQLSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := secretID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = ?`, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return checkDeleted(result)
}

func scanMySQLMetadata(rows *sql.Rows) (*secretsDomain.Secret, error) {
	var secret secretsDomain.Secret
	var id []byte
	if err := rows.Scan(&id, &secret.Owner, &secret.Name, &secret.CreatedAt); err != nil {
		return nil, apperrors.Wrap(err, "failed to scan secret")
	}
	if err := secret.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret id")
	}
	return &secret, nil
}

// NewMySQLSecretRepository creates a new MySQL Secret repository instance.
func NewMySQLSecretRepository(db *sql.DB) *MySQLSecretRepository {
	return &MySQLSecretRepository{db: db}
}
