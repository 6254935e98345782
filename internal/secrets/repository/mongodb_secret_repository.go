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
	secretsDomain "github.com/allisson/vaultkeeper/internal/secrets/domain"
)

const secretsCollection = "secrets"

type secretDocument struct {
	ID         string    `bson:"_id"`
	Owner      string    `bson:"owner"`
	Name       string    `bson:"name"`
	Ciphertext []byte    `bson:"ciphertext,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d *secretDocument) toDomain() (*secretsDomain.Secret, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse secret id")
	}
	return &secretsDomain.Secret{
		ID:         id,
		Owner:      d.Owner,
		Name:       d.Name,
		Ciphertext: d.Ciphertext,
		CreatedAt:  d.CreatedAt.UTC(),
	}, nil
}

// metadataProjection leaves ciphertext out of list queries.
var metadataProjection = bson.D{{Key: "ciphertext", Value: 0}}

// MongoDBSecretRepository implements Secret persistence for MongoDB.
type MongoDBSecretRepository struct {
	collection *mongo.Collection
}

// EnsureIndexes creates the unique (owner, name) index and the created_at
// index used by List.
func (r *MongoDBSecretRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_secrets_owner_name").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_secrets_created_at"),
		},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, models); err != nil {
		return apperrors.Wrap(err, "failed to create secret indexes")
	}
	return nil
}

// Create inserts a new secret.
func (r *MongoDBSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	doc := secretDocument{
		ID:         secret.ID.String(),
		Owner:      secret.Owner,
		Name:       secret.Name,
		Ciphertext: secret.Ciphertext,
		CreatedAt:  secret.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return secretsDomain.ErrSecretAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// Get retrieves a secret with its ciphertext.
func (r *MongoDBSecretRepository) Get(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	var doc secretDocument
	err := r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: secretID.String()}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret")
	}
	return doc.toDomain()
}

// List retrieves secret metadata ordered newest first.
func (r *MongoDBSecretRepository) List(ctx context.Context, offset, limit int) ([]*secretsDomain.Secret, error) {
	opts := options.Find().
		SetProjection(metadataProjection).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	return r.find(ctx, bson.D{}, opts, "failed to list secrets")
}

// ListByOwner retrieves the metadata of all secrets of owner, ordered by name.
func (r *MongoDBSecretRepository) ListByOwner(ctx context.Context, owner string) ([]*secretsDomain.Secret, error) {
	opts := options.Find().
		SetProjection(metadataProjection).
		SetSort(bson.D{{Key: "name", Value: 1}})

	return r.find(ctx, bson.D{{Key: "owner", Value: owner}}, opts, "failed to list secrets by owner")
}

// Delete removes a secret. Deleting a missing id returns ErrSecretNotFound.
func (r *MongoDBSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: secretID.String()}})
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	if result.DeletedCount == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

func (r *MongoDBSecretRepository) find(
	ctx context.Context,
	filter bson.D,
	opts *options.FindOptionsBuilder,
	failure string,
) ([]*secretsDomain.Secret, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, failure)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []secretDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode secrets")
	}

	secrets := make([]*secretsDomain.Secret, 0, len(docs))
	for i := range docs {
		secret, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		secrets = append(secrets, secret)
	}
	return secrets, nil
}

// NewMongoDBSecretRepository creates a new MongoDB Secret repository instance.
func NewMongoDBSecretRepository(db *mongo.Database) *MongoDBSecretRepository {
	return &MongoDBSecretRepository{collection: db.Collection(secretsCollection)}
}
