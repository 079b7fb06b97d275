package jobs

import (
	"context"
	"testing"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"github.com/ThinhDang464/Tomchat/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_RepairsMissingFriendLinks(t *testing.T) {
	userStore := testutil.NewMemUserStore()
	friendStore := testutil.NewMemFriendStore()

	alice := userStore.AddUser(&models.User{FullName: "alice", Email: "alice@example.com"})
	bob := userStore.AddUser(&models.User{FullName: "bob", Email: "bob@example.com"})

	// Accepted request whose friend-set writes never happened.
	friendStore.AddRequest(&models.FriendRequest{
		SenderID:    alice.ID,
		RecipientID: bob.ID,
		Status:      models.RequestAccepted,
	})
	// Pending request that must stay untouched.
	carol := userStore.AddUser(&models.User{FullName: "carol", Email: "carol@example.com"})
	friendStore.AddRequest(&models.FriendRequest{
		SenderID:    carol.ID,
		RecipientID: alice.ID,
		Status:      models.RequestPending,
	})

	reconciler := NewFriendshipReconciler(friendStore, userStore)
	require.NoError(t, reconciler.Run(context.Background()))

	aliceStored, _ := userStore.GetUserByID(context.Background(), alice.ID)
	bobStored, _ := userStore.GetUserByID(context.Background(), bob.ID)
	carolStored, _ := userStore.GetUserByID(context.Background(), carol.ID)

	assert.True(t, aliceStored.HasFriend(bob.ID))
	assert.True(t, bobStored.HasFriend(alice.ID))
	assert.Empty(t, carolStored.Friends, "pending requests are not linked")
	assert.False(t, aliceStored.HasFriend(carol.ID))
}

func TestRun_IdempotentOnHealthyState(t *testing.T) {
	userStore := testutil.NewMemUserStore()
	friendStore := testutil.NewMemFriendStore()

	alice := userStore.AddUser(&models.User{FullName: "alice", Email: "alice@example.com"})
	bob := userStore.AddUser(&models.User{FullName: "bob", Email: "bob@example.com"})
	friendStore.AddRequest(&models.FriendRequest{
		SenderID:    alice.ID,
		RecipientID: bob.ID,
		Status:      models.RequestAccepted,
	})

	reconciler := NewFriendshipReconciler(friendStore, userStore)
	require.NoError(t, reconciler.Run(context.Background()))
	require.NoError(t, reconciler.Run(context.Background()))

	aliceStored, _ := userStore.GetUserByID(context.Background(), alice.ID)
	assert.Len(t, aliceStored.Friends, 1, "repeated runs never duplicate entries")
}
