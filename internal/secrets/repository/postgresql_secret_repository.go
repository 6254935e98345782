// Package repository implements secret persistence for PostgreSQL, MySQL and MongoDB.
// Only ciphertext is ever written; plaintext never reaches a repository.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/vaultkeeper/internal/database"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	secretsDomain "github.com/allisson/vaultkeeper/internal/secrets/domain"
)

// PostgreSQLSecretRepository implements Secret persistence for PostgreSQL databases.
type PostgreSQLSecretRepository struct {
	db *sql.DB
}

// Create inserts a new secret.
func (p *PostgreSQLSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secrets (id, owner, name, ciphertext, created_at)
			  VALUES ($1, $2, $3, $4, $5)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID,
		secret.Owner,
		secret.Name,
		secret.Ciphertext,
		secret.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return secretsDomain.ErrSecretAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret with its ciphertext.
func (p *PostgreSQLSecretRepository) Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner, name, ciphertext, created_at
			  FROM secrets
			  WHERE id = $1`

	var secret secretsDomain.Secret
	err := querier.QueryRowContext(ctx, query, secretID).Scan(
		&secret.ID,
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

	return &secret, nil
}

// List retrieves secret metadata ordered newest first.
func (p *PostgreSQLSecretRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner, name, created_at
			  FROM secrets
			  ORDER BY created_at DESC, id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	return collectSecrets(rows, scanPostgreSQLMetadata)
}

// ListByOwner retrieves the metadata of all secrets of owner, ordered by name.
func (p *PostgreSQLSecretRepository) ListByOwner(
	ctx context.Context,
	owner string,
) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, owner, name, created_at
			  FROM secrets
			  WHERE owner = $1
			  ORDER BY name`

	rows, err := querier.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets by owner")
	}
	return collectSecrets(rows, scanPostgreSQLMetadata)
}

// Delete removes a secret. Deleting a missing id returns ErrSecretNotFound.
func (p *PostgreSQLSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = $1`, secretID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	return checkDeleted(result)
}

// collectSecrets drains rows through scan and closes them.
func collectSecrets(
	rows *sql.Rows,
	scan func(rows *sql.Rows) (*secretsDomain.Secret, error),
) ([]*secretsDomain.Secret, error) {
	defer func() {
		_ = rows.Close()
	}()

	secrets := make([]*secretsDomain.Secret, 0)
	for rows.Next() {
		secret, err := scan(rows)
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}
	return secrets, nil
}

func scanPostgreSQLMetadata(rows *sql.Rows) (*secretsDomain.Secret, error) {
	var secret secretsDomain.Secret
	if err := rows.Scan(&secret.ID, &secret.Owner, &secret.Name, &secret.CreatedAt); err != nil {
		return nil, apperrors.Wrap(err, "failed to scan secret")
	}
	return &secret, nil
}

func checkDeleted(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if affected == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

// NewPostgreSQLSecretRepository creates a new PostgreSQL Secret repository instance.
func NewPostgreSQLSecretRepository(db *sql.DB) *PostgreSQLSecretRepository {
	return &PostgreSQLSecretRepository{db: db}
}
