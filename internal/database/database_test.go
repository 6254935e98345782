package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestConnectMongo_InvalidURI(t *testing.T) {
	client, db, err := ConnectMongo(context.Background(), MongoConfig{
		URI:      "not-a-mongo-uri",
		Database: "vaultkeeper",
		Timeout:  time.Second,
	})

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to connect to mongodb")
}

func TestIsMongoNotFound(t *testing.T) {
	assert.False(t, IsMongoNotFound(assert.AnError))
	assert.False(t, IsMongoNotFound(nil))
	assert.True(t, IsMongoNotFound(mongo.ErrNoDocuments))
	assert.True(t, IsMongoNotFound(fmt.Errorf("find user: %w", mongo.ErrNoDocuments)))
}
