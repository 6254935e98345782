// Package repository implements signing key persistence for PostgreSQL, MySQL,
// MongoDB and an in-memory store.
//
// # Active Key Marker
//
// At most one signing key carries the active marker. Every backend enforces this
// with a unique constraint on the marker, so promoting a new key is a single
// conditional write: SwapActive clears the marker of a stale active key and inserts
// the candidate as active only if no other active key remains. When two instances
// race, the constraint lets exactly one candidate through; the other reports that
// it lost and re-reads the winner.
//
// # Transaction Support
//
// SQL repositories use database.GetTx(), so SwapActive run inside
// TxManager.WithTx retires the stale key and inserts the candidate atomically.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vaultkeeper/internal/database"
	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

// PostgreSQLSigningKeyRepository implements signing key persistence for PostgreSQL.
//
// Database schema requirements:
//   - id: UUID PRIMARY KEY
//   - public_key: BYTEA
//   - private_key_ciphertext: BYTEA (nonce || ciphertext || tag)
//   - active: BOOLEAN NULL UNIQUE (TRUE for the active key, NULL otherwise)
//   - created_at: TIMESTAMP WITH TIME ZONE
type PostgreSQLSigningKeyRepository struct {
	db *sql.DB
}

// GetActive returns the key currently carrying the active marker.
func (p *PostgreSQLSigningKeyRepository) GetActive(ctx context.Context) (*signingKeyDomain.SigningKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, public_key, private_key_ciphertext, active, created_at
			  FROM signing_keys
			  WHERE active = TRUE`

	key, err := scanSigningKey(querier.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, signingKeyDomain.ErrSigningKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get active signing key")
	}

	return key, nil
}

// Get returns the key with the given id, active or not.
func (p *PostgreSQLSigningKeyRepository) Get(
	ctx context.Context,
	keyID uuid.UUID,
) (*signingKeyDomain.SigningKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, public_key, private_key_ciphertext, active, created_at
			  FROM signing_keys
			  WHERE id = $1`

	key, err := scanSigningKey(querier.QueryRowContext(ctx, query, keyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, signingKeyDomain.ErrSigningKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get signing key")
	}

	return key, nil
}

// ListSince returns the active key and every key created at or after since, newest first.
func (p *PostgreSQLSigningKeyRepository) ListSince(
	ctx context.Context,
	since time.Time,
) ([]*signingKeyDomain.SigningKey, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, public_key, private_key_ciphertext, active, created_at
			  FROM signing_keys
			  WHERE active = TRUE OR created_at >= $1
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, since)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list signing keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	keys := make([]*signingKeyDomain.SigningKey, 0)
	for rows.Next() {
		key, err := scanSigningKey(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan signing key")
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate signing keys")
	}

	return keys, nil
}

// SwapActive retires the active key if it was created at or before cutoff and
// inserts candidate as the active key. It returns false when another active key
// is already in place, in which case nothing is written for candidate.
func (p *PostgreSQLSigningKeyRepository) SwapActive(
	ctx context.Context,
	candidate *signingKeyDomain.SigningKey,
	cutoff time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	retire := `UPDATE signing_keys SET active = NULL WHERE active = TRUE AND created_at <= $1`
	if _, err := querier.ExecContext(ctx, retire, cutoff); err != nil {
		return false, apperrors.Wrap(err, "failed to retire signing key")
	}

	insert := `INSERT INTO signing_keys (id, public_key, private_key_ciphertext, active, created_at)
			   VALUES ($1, $2, $3, TRUE, $4)
			   ON CONFLICT (active) DO NOTHING`

	result, err := querier.ExecContext(
		ctx,
		insert,
		candidate.ID,
		candidate.PublicKey,
		candidate.PrivateKeyCiphertext,
		candidate.CreatedAt,
	)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to insert signing key")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to get rows affected")
	}

	if affected == 1 {
		candidate.Active = true
		return true, nil
	}
	return false, nil
}

// NewPostgreSQLSigningKeyRepository creates a new PostgreSQL signing key repository.
func NewPostgreSQLSigningKeyRepository(db *sql.DB) *PostgreSQLSigningKeyRepository {
	return &PostgreSQLSigningKeyRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSigningKey(row rowScanner) (*signingKeyDomain.SigningKey, error) {
	var key signingKeyDomain.SigningKey
	var active sql.NullBool

	if err := row.Scan(
		&key.ID,
		&key.PublicKey,
		&key.PrivateKeyCiphertext,
		&active,
		&key.CreatedAt,
	); err != nil {
		return nil, err
	}

	key.Active = active.Valid && active.Bool
	return &key, nil
}
