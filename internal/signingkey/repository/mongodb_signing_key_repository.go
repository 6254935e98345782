package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	apperrors "github.com/allisson/vaultkeeper/internal/errors"
	signingKeyDomain "github.com/allisson/vaultkeeper/internal/signingkey/domain"
)

const signingKeysCollection = "signing_keys"

type signingKeyDocument struct {
	ID                   string    `bson:"_id"`
	PublicKey            []byte    `bson:"public_key"`
	PrivateKeyCiphertext []byte    `bson:"private_key_ciphertext"`
	Active               bool      `bson:"active"`
	CreatedAt            time.Time `bson:"created_at"`
}

func (d *signingKeyDocument) toDomain() (*signingKeyDomain.SigningKey, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse signing key id")
	}
	return &signingKeyDomain.SigningKey{
		ID:                   id,
		PublicKey:            d.PublicKey,
		PrivateKeyCiphertext: d.PrivateKeyCiphertext,
		Active:               d.Active,
		CreatedAt:            d.CreatedAt.UTC(),
	}, nil
}

// MongoDBSigningKeyRepository implements signing key persistence for MongoDB.
//
// Uniqueness of the active key comes from a partial unique index on active
// restricted to active: true, created by EnsureIndexes.
type MongoDBSigningKeyRepository struct {
	collection *mongo.Collection
}

// EnsureIndexes creates the partial unique index on the active marker and the
// created_at index used by ListSince.
func (r *MongoDBSigningKeyRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "active", Value: 1}},
			Options: options.Index().
				SetName("uniq_active_signing_key").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "active", Value: true}}),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_signing_keys_created_at"),
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return apperrors.Wrap(err, "failed to create signing key indexes")
	}
	return nil
}

// GetActive returns the key currently carrying the active marker.
func (r *MongoDBSigningKeyRepository) GetActive(ctx context.Context) (*signingKeyDomain.SigningKey, error) {
	return r.findOne(ctx, bson.D{{Key: "active", Value: true}}, "failed to get active signing key")
}

// Get returns the key with the given id, active or not.
func (r *MongoDBSigningKeyRepository) Get(
	ctx context.Context,
	keyID uuid.UUID,
) (*signingKeyDomain.SigningKey, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: keyID.String()}}, "failed to get signing key")
}

// ListSince returns the active key and every key created at or after since, newest first.
func (r *MongoDBSigningKeyRepository) ListSince(
	ctx context.Context,
	since time.Time,
) ([]*signingKeyDomain.SigningKey, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "active", Value: true}},
		bson.D{{Key: "created_at", Value: bson.D{{Key: "$gte", Value: since}}}},
	}}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list signing keys")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []signingKeyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode signing keys")
	}

	keys := make([]*signingKeyDomain.SigningKey, 0, len(docs))
	for i := range docs {
		key, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// SwapActive clears the marker of an active key created at or before cutoff and
// inserts candidate as active. The partial unique index rejects the insert while
// another active key exists, which reports false.
func (r *MongoDBSigningKeyRepository) SwapActive(
	ctx context.Context,
	candidate *signingKeyDomain.SigningKey,
	cutoff time.Time,
) (bool, error) {
	retire := bson.D{
		{Key: "active", Value: true},
		{Key: "created_at", Value: bson.D{{Key: "$lte", Value: cutoff}}},
	}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "active", Value: false}}}}

	if _, err := r.collection.UpdateOne(ctx, retire, update); err != nil {
		return false, apperrors.Wrap(err, "failed to retire signing key")
	}

	doc := signingKeyDocument{
		ID:                   candidate.ID.String(),
		PublicKey:            candidate.PublicKey,
		PrivateKeyCiphertext: candidate.PrivateKeyCiphertext,
		Active:               true,
		CreatedAt:            candidate.CreatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, apperrors.Wrap(err, "failed to insert signing key")
	}

	candidate.Active = true
	return true, nil
}

func (r *MongoDBSigningKeyRepository) findOne(
	ctx context.Context,
	filter bson.D,
	failure string,
) (*signingKeyDomain.SigningKey, error) {
	var doc signingKeyDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, signingKeyDomain.ErrSigningKeyNotFound
		}
		return nil, apperrors.Wrap(err, failure)
	}
	return doc.toDomain()
}

// NewMongoDBSigningKeyRepository creates a new MongoDB signing key repository.
func NewMongoDBSigningKeyRepository(db *mongo.Database) *MongoDBSigningKeyRepository {
	return &MongoDBSigningKeyRepository{collection: db.Collection(signingKeysCollection)}
}
