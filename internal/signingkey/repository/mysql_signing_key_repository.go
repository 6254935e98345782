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

// MySQLSigningKeyRepository implements signing key persistence for MySQL.
//
// Database schema requirements:
//   - id: BINARY(16) PRIMARY KEY (UUID in binary format)
//   - public_key: BLOB
//   - private_key_ciphertext: BLOB (nonce || ciphertext || tag)
//   - active: TINYINT(1) NULL UNIQUE (1 for the active key, NULL otherwise)
//   - created_at: DATETIME(6)
//
// UUIDs are stored as BINARY(16) through uuid.MarshalBinary/UnmarshalBinary.
type MySQLSigningKeyRepository struct {
	db *sql.DB
}

// GetActive returns the key currently carrying the active marker.
func (m *MySQLSigningKeyRepository) GetActive(ctx context.Context) (*signingKeyDomain.SigningKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, public_key, private_key_ciphertext, active, created_at
			  FROM signing_keys
			  WHERE active = 1`

	key, err := scanMySQLSigningKey(querier.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, signingKeyDomain.ErrSigningKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get active signing key")
	}

	return key, nil
}

// Get returns the key with the given id, active or not.
func (m *MySQLSigningKeyRepository) Get(
	ctx context.Context,
	keyID uuid.UUID,
) (*signingKeyDomain.SigningKey, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := keyID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal signing key id")
	}

	query := `SELECT id, public_key, private_key_ciphertext, active, created_at
			  FROM signing_keys
			  WHERE id = ?`

	key, err := scanMySQLSigningKey(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, signingKeyDomain.ErrSigningKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get signing key")
	}

	return key, nil
}

// ListSince returns the active key and every key created at or after since, newest first.
func (m *MySQLSigningKeyRepository) ListSince(
	ctx context.Context,
	since time.Time,
) ([]*signingKeyDomain.SigningKey, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, public_key, private_key_ciphertext, active, created_at
			  FROM signing_keys
			  WHERE active = 1 OR created_at >= ?
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
		key, err := scanMySQLSigningKey(rows)
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
// inserts candidate as the active key. A duplicate on the active marker turns the
// insert into a no-op, which reports zero affected rows.
func (m *MySQLSigningKeyRepository) SwapActive(
	ctx context.Context,
	candidate *signingKeyDomain.SigningKey,
	cutoff time.Time,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := candidate.ID.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal signing key id")
	}

	retire := `UPDATE signing_keys SET active = NULL WHERE active = 1 AND created_at <= ?`
	if _, err := querier.ExecContext(ctx, retire, cutoff); err != nil {
		return false, apperrors.Wrap(err, "failed to retire signing key")
	}

	insert := `INSERT INTO signing_keys (id, public_key, private_key_ciphertext, active, created_at)
			   VALUES (?, ?, ?, 1, ?)
			   ON DUPLICATE KEY UPDATE id = id`

	result, err := querier.ExecContext(
		ctx,
		insert,
		id,
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

// NewMySQLSigningKeyRepository creates a new MySQL signing key repository.
func NewMySQLSigningKeyRepository(db *sql.DB) *MySQLSigningKeyRepository {
	return &MySQLSigningKeyRepository{db: db}
}

func scanMySQLSigningKey(row rowScanner) (*signingKeyDomain.SigningKey, error) {
	var key signingKeyDomain.SigningKey
	var id []byte
	var active sql.NullBool

	if err := row.Scan(
		&id,
		&key.PublicKey,
		&key.PrivateKeyCiphertext,
		&active,
		&key.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := key.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal signing key id")
	}

	key.Active = active.Valid && active.Bool
	return &key, nil
}
