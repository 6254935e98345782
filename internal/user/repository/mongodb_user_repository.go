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
	"github.com/allisson/vaultkeeper/internal/user/domain"
)

const usersCollection = "users"

type userDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

// MongoDBUserRepository handles user persistence for MongoDB.
type MongoDBUserRepository struct {
	collection *mongo.Collection
}

// NewMongoDBUserRepository creates a new MongoDBUserRepository.
func NewMongoDBUserRepository(db *mongo.Database) *MongoDBUserRepository {
	return &MongoDBUserRepository{collection: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index.
func (r *MongoDBUserRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_users_email").SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, model); err != nil {
		return apperrors.Wrap(err, "failed to create user indexes")
	}
	return nil
}

// Create inserts a new user.
func (r *MongoDBUserRepository) Create(ctx context.Context, user *domain.User) error {
	doc := userDocument{
		ID:           user.ID.String(),
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *MongoDBUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, "failed to get user by id")
}

// GetByEmail retrieves a user by its normalized email.
func (r *MongoDBUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "failed to get user by email")
}

func (r *MongoDBUserRepository) findOne(ctx context.Context, filter bson.D, failure string) (*domain.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, failure)
	}

	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse user id")
	}
	return &domain.User{
		ID:           id,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
	}, nil
}
