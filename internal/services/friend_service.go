package services

import (
	"context"
	"fmt"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"github.com/ThinhDang464/Tomchat/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService owns the friend-request lifecycle and the consistency of
// the symmetric friend relation across the user directory and the request
// ledger.
type FriendService struct {
	friendRepo repository.FriendRequestStore
	userRepo   repository.UserStore
}

// NewFriendService creates a new FriendService.
func NewFriendService(friendRepo repository.FriendRequestStore, userRepo repository.UserStore) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendFriendRequest creates a pending request from sender to recipient.
// Rejected when the target is the sender themselves, does not exist, is
// already a friend, or already has a request with the sender in either
// direction. The unique pair_key index backs the duplicate check, so two
// racing sends cannot both succeed.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, recipientID primitive.ObjectID) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, models.ErrSelfRequest
	}

	recipient, err := s.userRepo.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	if recipient.HasFriend(senderID) {
		return nil, models.ErrAlreadyFriends
	}

	existing, err := s.friendRepo.GetRequestByPair(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrDuplicateRequest
	}

	request, err := s.friendRepo.CreateRequest(ctx, &models.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"senderID":    senderID.Hex(),
		"recipientID": recipientID.Hex(),
	}).Info("Friend request sent")
	return request, nil
}

// AcceptFriendRequest marks the request accepted and links both users'
// friend sets. Only the recorded recipient may accept.
//
// The three writes (status flip, two friend-set additions) are not wrapped
// in a transaction. Instead every step is idempotent and re-run on each
// call, so a crash between steps is repaired by a later accept of the same
// id (or by the scheduled reconciliation job). A second accept after the
// request is already accepted is a no-op success.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, requestID, accepterID primitive.ObjectID) error {
	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}

	if request.RecipientID != accepterID {
		return models.ErrNotRecipient
	}

	flipped, err := s.friendRepo.MarkAccepted(ctx, requestID)
	if err != nil {
		return err
	}

	if err := s.userRepo.AddFriend(ctx, request.SenderID, request.RecipientID); err != nil {
		return fmt.Errorf("failed to add friend to sender: %v", err)
	}
	if err := s.userRepo.AddFriend(ctx, request.RecipientID, request.SenderID); err != nil {
		return fmt.Errorf("failed to add friend to recipient: %v", err)
	}

	if flipped {
		logrus.WithField("requestID", requestID.Hex()).Info("Friend request accepted")
	}
	return nil
}

// IncomingRequests returns pending requests addressed to the user, each
// carrying the sender's profile summary.
func (s *FriendService) IncomingRequests(ctx context.Context, userID primitive.ObjectID) ([]models.IncomingRequest, error) {
	requests, err := s.friendRepo.GetRequestsByRecipient(ctx, userID, models.RequestPending)
	if err != nil {
		return nil, err
	}

	senders := make([]primitive.ObjectID, 0, len(requests))
	for _, req := range requests {
		senders = append(senders, req.SenderID)
	}

	summaries, err := s.summariesByID(ctx, senders)
	if err != nil {
		return nil, err
	}

	incoming := make([]models.IncomingRequest, 0, len(requests))
	for _, req := range requests {
		incoming = append(incoming, models.IncomingRequest{
			Request: req,
			Sender:  summaries[req.SenderID],
		})
	}
	return incoming, nil
}

// OutgoingRequests returns pending requests the user has sent, each
// carrying the recipient's profile summary.
func (s *FriendService) OutgoingRequests(ctx context.Context, userID primitive.ObjectID) ([]models.OutgoingRequest, error) {
	return s.sentRequests(ctx, userID, models.RequestPending)
}

// AcceptedSentRequests returns requests the user sent that have been
// accepted, used to show "they accepted you".
func (s *FriendService) AcceptedSentRequests(ctx context.Context, userID primitive.ObjectID) ([]models.OutgoingRequest, error) {
	return s.sentRequests(ctx, userID, models.RequestAccepted)
}

func (s *FriendService) sentRequests(ctx context.Context, userID primitive.ObjectID, status string) ([]models.OutgoingRequest, error) {
	requests, err := s.friendRepo.GetRequestsBySender(ctx, userID, status)
	if err != nil {
		return nil, err
	}

	recipients := make([]primitive.ObjectID, 0, len(requests))
	for _, req := range requests {
		recipients = append(recipients, req.RecipientID)
	}

	summaries, err := s.summariesByID(ctx, recipients)
	if err != nil {
		return nil, err
	}

	outgoing := make([]models.OutgoingRequest, 0, len(requests))
	for _, req := range requests {
		outgoing = append(outgoing, models.OutgoingRequest{
			Request:   req,
			Recipient: summaries[req.RecipientID],
		})
	}
	return outgoing, nil
}

// GetFriends resolves the user's friend id set to profile summaries.
func (s *FriendService) GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.UserSummary, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(user.Friends) == 0 {
		return []models.UserSummary{}, nil
	}

	friends, err := s.userRepo.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %v", err)
	}

	summaries := make([]models.UserSummary, 0, len(friends))
	for _, friend := range friends {
		summaries = append(summaries, friend.Summary())
	}
	return summaries, nil
}

// RecommendedUsers returns onboarded users the user is not already
// connected to. No ranking or pagination.
func (s *FriendService) RecommendedUsers(ctx context.Context, userID primitive.ObjectID) ([]models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetRecommendedUsers(ctx, user.ID, user.Friends)
}

func (s *FriendService) summariesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	users, err := s.userRepo.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}

	summaries := make(map[primitive.ObjectID]models.UserSummary, len(users))
	for _, user := range users {
		summaries[user.ID] = user.Summary()
	}
	return summaries, nil
}
