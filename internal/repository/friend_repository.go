package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// FriendRepository handles database operations on the friend-request
// ledger.
type FriendRepository struct {
	collection *mongo.Collection
}

func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		collection: db.Collection("friend_requests"),
	}
}

// CreateRequest inserts a new pending friend request. The unique index on
// pair_key turns a racing duplicate insert into ErrDuplicateRequest.
func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.Status = models.RequestPending
	req.PairKey = models.PairKey(req.SenderID, req.RecipientID)
	req.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrDuplicateRequest
		}
		return nil, fmt.Errorf("failed to create friend request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

// GetRequestByID fetches a single request by id.
func (r *FriendRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}

// GetRequestByPair looks up a request between two users regardless of
// direction or status. Returns (nil, nil) when none exists.
func (r *FriendRepository) GetRequestByPair(ctx context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"pair_key": models.PairKey(a, b)}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find friend request by pair: %v", err)
	}
	return &request, nil
}

// GetRequestsByRecipient returns requests where recipientID is the
// recipient, filtered by status.
func (r *FriendRepository) GetRequestsByRecipient(ctx context.Context, recipientID primitive.ObjectID, status string) ([]models.FriendRequest, error) {
	return r.findRequests(ctx, bson.M{"recipient_id": recipientID, "status": status})
}

// GetRequestsBySender returns requests where senderID is the sender,
// filtered by status.
func (r *FriendRepository) GetRequestsBySender(ctx context.Context, senderID primitive.ObjectID, status string) ([]models.FriendRequest, error) {
	return r.findRequests(ctx, bson.M{"sender_id": senderID, "status": status})
}

// GetRequestsByStatus returns every request with the given status. Used by
// the friendship reconciliation job.
func (r *FriendRepository) GetRequestsByStatus(ctx context.Context, status string) ([]models.FriendRequest, error) {
	return r.findRequests(ctx, bson.M{"status": status})
}

func (r *FriendRepository) findRequests(ctx context.Context, filter bson.M) ([]models.FriendRequest, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode friend requests: %v", err)
	}
	return requests, nil
}

// MarkAccepted flips a request to accepted, guarded so only a pending
// request is modified. Returns false when the request was already accepted,
// which lets callers treat a repeated accept as a no-op.
func (r *FriendRepository) MarkAccepted(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.RequestPending},
		bson.M{"$set": bson.M{"status": models.RequestAccepted}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to update request status: %v", err)
	}
	return result.ModifiedCount > 0, nil
}
