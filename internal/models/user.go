package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in Tomchat. Friends holds the ObjectIDs of
// mutual connections; the relation is symmetric by construction (if A lists
// B, B lists A).
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FullName         string               `bson:"full_name" json:"fullName"`
	Email            string               `bson:"email" json:"email"`
	HashedPassword   string               `bson:"hashed_password" json:"-"`
	Bio              string               `bson:"bio" json:"bio"`
	ProfilePic       string               `bson:"profile_pic" json:"profilePic"`
	NativeLanguage   string               `bson:"native_language" json:"nativeLanguage"`
	LearningLanguage string               `bson:"learning_language" json:"learningLanguage"`
	Location         string               `bson:"location" json:"location"`
	IsOnboarded      bool                 `bson:"is_onboarded" json:"isOnboarded"`
	Friends          []primitive.ObjectID `bson:"friends" json:"friends"`
	ResetToken       string               `bson:"reset_token,omitempty" json:"-"`
	ResetTokenExp    time.Time            `bson:"reset_token_exp,omitempty" json:"-"`
	CreatedAt        time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updated_at" json:"updatedAt"`
}

// HasFriend reports whether id is already in the user's friend set.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	for _, friendID := range u.Friends {
		if friendID == id {
			return true
		}
	}
	return false
}

// UserSummary is the trimmed profile embedded in friend lists and request
// listings.
type UserSummary struct {
	ID               primitive.ObjectID `json:"id"`
	FullName         string             `json:"fullName"`
	ProfilePic       string             `json:"profilePic"`
	NativeLanguage   string             `json:"nativeLanguage,omitempty"`
	LearningLanguage string             `json:"learningLanguage,omitempty"`
}

// Summary returns the public summary of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:               u.ID,
		FullName:         u.FullName,
		ProfilePic:       u.ProfilePic,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
	}
}
