// Package testutil provides in-memory implementations of the repository
// store interfaces for unit tests.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemUserStore is a map-backed UserStore.
type MemUserStore struct {
	mu    sync.Mutex
	Users map[primitive.ObjectID]*models.User
}

func NewMemUserStore() *MemUserStore {
	return &MemUserStore{Users: make(map[primitive.ObjectID]*models.User)}
}

// AddUser seeds a user, assigning an id when missing, and returns it.
func (s *MemUserStore) AddUser(user *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	s.Users[user.ID] = user
	return user
}

func (s *MemUserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.Users {
		if existing.Email == user.Email {
			return nil, models.ErrEmailTaken
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	s.Users[user.ID] = user
	return user, nil
}

func (s *MemUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.Users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := *user
	clone.Friends = append([]primitive.ObjectID{}, user.Friends...)
	return &clone, nil
}

func (s *MemUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.Users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *MemUserStore) GetUserByResetToken(_ context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.Users {
		if user.ResetToken != "" && user.ResetToken == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (s *MemUserStore) UpdateUser(_ context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.Users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	for key, value := range update {
		switch key {
		case "full_name":
			user.FullName = value.(string)
		case "bio":
			user.Bio = value.(string)
		case "profile_pic":
			user.ProfilePic = value.(string)
		case "native_language":
			user.NativeLanguage = value.(string)
		case "learning_language":
			user.LearningLanguage = value.(string)
		case "location":
			user.Location = value.(string)
		case "is_onboarded":
			user.IsOnboarded = value.(bool)
		case "hashed_password":
			user.HashedPassword = value.(string)
		case "reset_token":
			user.ResetToken = value.(string)
		case "reset_token_exp":
			user.ResetTokenExp = value.(time.Time)
		}
	}
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

func (s *MemUserStore) GetUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := s.Users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (s *MemUserStore) AddFriend(_ context.Context, userID, friendID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.Users[userID]
	if !ok {
		return models.ErrUserNotFound
	}
	for _, existing := range user.Friends {
		if existing == friendID {
			return nil
		}
	}
	user.Friends = append(user.Friends, friendID)
	return nil
}

func (s *MemUserStore) GetRecommendedUsers(_ context.Context, userID primitive.ObjectID, exclude []primitive.ObjectID) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	excluded := map[primitive.ObjectID]bool{userID: true}
	for _, id := range exclude {
		excluded[id] = true
	}
	var users []models.User
	for id, user := range s.Users {
		if !excluded[id] && user.IsOnboarded {
			users = append(users, *user)
		}
	}
	return users, nil
}

// MemFriendStore is a map-backed FriendRequestStore enforcing the same
// pair-key uniqueness as the Mongo index.
type MemFriendStore struct {
	mu       sync.Mutex
	Requests map[primitive.ObjectID]*models.FriendRequest
}

func NewMemFriendStore() *MemFriendStore {
	return &MemFriendStore{Requests: make(map[primitive.ObjectID]*models.FriendRequest)}
}

// AddRequest seeds a request, assigning id and pair key when missing.
func (s *MemFriendStore) AddRequest(req *models.FriendRequest) *models.FriendRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	if req.PairKey == "" {
		req.PairKey = models.PairKey(req.SenderID, req.RecipientID)
	}
	s.Requests[req.ID] = req
	return req
}

func (s *MemFriendStore) CreateRequest(_ context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pairKey := models.PairKey(req.SenderID, req.RecipientID)
	for _, existing := range s.Requests {
		if existing.PairKey == pairKey {
			return nil, models.ErrDuplicateRequest
		}
	}
	req.ID = primitive.NewObjectID()
	req.Status = models.RequestPending
	req.PairKey = pairKey
	req.CreatedAt = time.Now()
	s.Requests[req.ID] = req
	return req, nil
}

func (s *MemFriendStore) GetRequestByID(_ context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.Requests[id]
	if !ok {
		return nil, models.ErrRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (s *MemFriendStore) GetRequestByPair(_ context.Context, a, b primitive.ObjectID) (*models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pairKey := models.PairKey(a, b)
	for _, req := range s.Requests {
		if req.PairKey == pairKey {
			clone := *req
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemFriendStore) GetRequestsByRecipient(_ context.Context, recipientID primitive.ObjectID, status string) ([]models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []models.FriendRequest
	for _, req := range s.Requests {
		if req.RecipientID == recipientID && req.Status == status {
			requests = append(requests, *req)
		}
	}
	return requests, nil
}

func (s *MemFriendStore) GetRequestsBySender(_ context.Context, senderID primitive.ObjectID, status string) ([]models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []models.FriendRequest
	for _, req := range s.Requests {
		if req.SenderID == senderID && req.Status == status {
			requests = append(requests, *req)
		}
	}
	return requests, nil
}

func (s *MemFriendStore) GetRequestsByStatus(_ context.Context, status string) ([]models.FriendRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var requests []models.FriendRequest
	for _, req := range s.Requests {
		if req.Status == status {
			requests = append(requests, *req)
		}
	}
	return requests, nil
}

func (s *MemFriendStore) MarkAccepted(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.Requests[id]
	if !ok {
		return false, models.ErrRequestNotFound
	}
	if req.Status != models.RequestPending {
		return false, nil
	}
	req.Status = models.RequestAccepted
	return true, nil
}
