package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrEmailTaken
		}
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %v", err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}
	return &user, nil
}

// GetUserByResetToken retrieves a user by their password reset token.
func (r *UserRepository) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"reset_token": token}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by reset token: %v", err)
	}
	return &user, nil
}

// UpdateUser applies a partial update and returns the updated document.
func (r *UserRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	update["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		opts,
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrUserNotFound
		}
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to update user")
		return nil, fmt.Errorf("failed to update user: %v", err)
	}

	return &user, nil
}

// GetUsersByIDs fetches user details for a list of ObjectIDs.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %v", err)
	}
	return users, nil
}

// AddFriend adds friendID to userID's friend set. $addToSet keeps the
// operation idempotent, so re-running an acceptance never produces
// duplicate entries.
func (r *UserRepository) AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"friends": friendID}},
	)
	if err != nil {
		return fmt.Errorf("failed to add friend: %v", err)
	}
	return nil
}

// GetRecommendedUsers returns onboarded users, excluding the user themselves
// and everyone already in their friend set. Storage-native order.
func (r *UserRepository) GetRecommendedUsers(ctx context.Context, userID primitive.ObjectID, exclude []primitive.ObjectID) ([]models.User, error) {
	excluded := append([]primitive.ObjectID{userID}, exclude...)
	filter := bson.M{
		"_id":          bson.M{"$nin": excluded},
		"is_onboarded": true,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommended users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode recommended users: %v", err)
	}
	return users, nil
}
