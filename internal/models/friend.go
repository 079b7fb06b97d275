package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend request lifecycle states. A request starts pending and transitions
// to accepted exactly once; there is no rejected or cancelled state.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
)

type FriendRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"senderId"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipientId"`
	Status      string             `bson:"status" json:"status"`
	PairKey     string             `bson:"pair_key" json:"-"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}

// PairKey builds the canonical key for an unordered pair of user ids. The
// same key comes out regardless of direction, so the unique index on
// friend_requests rejects a second request between the same two users even
// when two inserts race past the application-level pre-check.
func PairKey(a, b primitive.ObjectID) string {
	ah, bh := a.Hex(), b.Hex()
	if bh < ah {
		ah, bh = bh, ah
	}
	return ah + ":" + bh
}

// IncomingRequest pairs a pending request with its sender's profile summary.
type IncomingRequest struct {
	Request FriendRequest `json:"request"`
	Sender  UserSummary   `json:"sender"`
}

// OutgoingRequest pairs a request with its recipient's profile summary.
type OutgoingRequest struct {
	Request   FriendRequest `json:"request"`
	Recipient UserSummary   `json:"recipient"`
}
