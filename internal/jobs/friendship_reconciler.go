package jobs

import (
	"context"
	"fmt"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"github.com/ThinhDang464/Tomchat/internal/repository"
	"github.com/sirupsen/logrus"
)

// FriendshipReconciler re-applies the friend-set writes for accepted
// requests. Acceptance is three separate writes with no cross-document
// transaction, so a crash between them can leave a request accepted without
// the symmetric friend links. Every write here is an idempotent $addToSet,
// which makes the scan safe to re-run at any time.
type FriendshipReconciler struct {
	friendRepo repository.FriendRequestStore
	userRepo   repository.UserStore
}

// NewFriendshipReconciler creates a new instance of FriendshipReconciler.
func NewFriendshipReconciler(friendRepo repository.FriendRequestStore, userRepo repository.UserStore) *FriendshipReconciler {
	return &FriendshipReconciler{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// Run scans all accepted requests and restores the symmetry invariant for
// each pair.
func (j *FriendshipReconciler) Run(ctx context.Context) error {
	requests, err := j.friendRepo.GetRequestsByStatus(ctx, models.RequestAccepted)
	if err != nil {
		return fmt.Errorf("failed to fetch accepted requests: %v", err)
	}

	var failures int
	for _, req := range requests {
		if err := j.userRepo.AddFriend(ctx, req.SenderID, req.RecipientID); err != nil {
			logrus.WithError(err).WithField("requestID", req.ID.Hex()).Error("Failed to repair sender friend set")
			failures++
			continue
		}
		if err := j.userRepo.AddFriend(ctx, req.RecipientID, req.SenderID); err != nil {
			logrus.WithError(err).WithField("requestID", req.ID.Hex()).Error("Failed to repair recipient friend set")
			failures++
		}
	}

	logrus.WithFields(logrus.Fields{
		"checked":  len(requests),
		"failures": failures,
	}).Info("Friendship reconciliation completed")

	if failures > 0 {
		return fmt.Errorf("friendship reconciliation had %d failures", failures)
	}
	return nil
}
