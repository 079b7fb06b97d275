package services

import (
	"context"
	"fmt"
	"time"

	stream "github.com/GetStream/stream-chat-go/v5"
	"github.com/ThinhDang464/Tomchat/internal/models"
)

// ChatService wraps the hosted Stream provider. Tomchat never stores chat
// messages itself; it only mirrors users into Stream and mints the tokens
// the frontend SDK authenticates with.
type ChatService struct {
	client *stream.Client
}

// NewChatService builds a Stream client from the API credentials.
func NewChatService(apiKey, apiSecret string) (*ChatService, error) {
	client, err := stream.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream client: %v", err)
	}
	return &ChatService{client: client}, nil
}

// UpsertUser creates or updates the user's mirror record in Stream.
func (s *ChatService) UpsertUser(ctx context.Context, user *models.User) error {
	_, err := s.client.UpsertUser(ctx, &stream.User{
		ID:    user.ID.Hex(),
		Name:  user.FullName,
		Image: user.ProfilePic,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert stream user: %v", err)
	}
	return nil
}

// CreateToken mints a Stream token for the given user id. The frontend
// uses it to connect to chat and video.
func (s *ChatService) CreateToken(userID string) (string, error) {
	token, err := s.client.CreateToken(userID, time.Time{})
	if err != nil {
		return "", fmt.Errorf("failed to create stream token: %v", err)
	}
	return token, nil
}
