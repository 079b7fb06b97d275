package repository

import (
	"context"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the user-directory boundary consumed by the service layer.
// The Mongo-backed implementation is UserRepository; tests substitute an
// in-memory fake.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	// AddFriend adds friendID to userID's friend set. Set semantics: adding
	// an id that is already present is a no-op.
	AddFriend(ctx context.Context, userID, friendID primitive.ObjectID) error
	// GetRecommendedUsers returns onboarded users excluding userID and every
	// id in exclude.
	GetRecommendedUsers(ctx context.Context, userID primitive.ObjectID, exclude []primitive.ObjectID) ([]models.User, error)
}

// FriendRequestStore is the friend-request ledger boundary.
type FriendRequestStore interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	// GetRequestByPair looks up a request between two users in either
	// direction and any status. Returns (nil, nil) when none exists.
	GetRequestByPair(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error)
	GetRequestsByRecipient(ctx context.Context, recipientID primitive.ObjectID, status string) ([]models.FriendRequest, error)
	GetRequestsBySender(ctx context.Context, senderID primitive.ObjectID, status string) ([]models.FriendRequest, error)
	GetRequestsByStatus(ctx context.Context, status string) ([]models.FriendRequest, error)
	// MarkAccepted flips the request to accepted only if it is still
	// pending. Returns false when the request was already accepted.
	MarkAccepted(ctx context.Context, id primitive.ObjectID) (bool, error)
}
