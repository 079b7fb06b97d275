package database

import (
	"context"
	"fmt"
	"time"

	"github.com/ThinhDang464/Tomchat/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes the MongoDB connection and bootstraps the indexes
// the application relies on.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	db := client.Database(cfg.DBName)

	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	logrus.WithField("database", cfg.DBName).Info("Connected to MongoDB")
	return db, nil
}

// ensureIndexes creates the indexes the relationship invariants depend on.
// The unique pair_key index is what makes duplicate friend requests
// impossible even when two inserts race past the application-level check.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %v", err)
	}

	_, err = db.Collection("friend_requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "status", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create friend_requests indexes: %v", err)
	}

	return nil
}
