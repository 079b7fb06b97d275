package handlers

import (
	"errors"
	"net/http"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"github.com/ThinhDang464/Tomchat/internal/services"
	"github.com/ThinhDang464/Tomchat/pkg/logger"
	"github.com/ThinhDang464/Tomchat/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendHandler manages HTTP endpoints for recommendations, friends and
// the friend-request lifecycle.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// GetRecommendedUsersHandler returns onboarded users the caller is not yet
// connected to.
func (h *FriendHandler) GetRecommendedUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	users, err := h.Service.RecommendedUsers(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get recommended users for %s: %v", userID.Hex(), err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if users == nil {
		users = []models.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

// GetFriendsHandler returns the caller's friends as profile summaries.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	friends, err := h.Service.GetFriends(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to fetch friends for %s: %v", userID.Hex(), err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, friends)
}

// SendFriendRequestHandler creates a pending friend request to the user in
// the URL.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	senderID, ok := callerID(w, r)
	if !ok {
		return
	}

	recipientID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	request, err := h.Service.SendFriendRequest(r.Context(), senderID, recipientID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSelfRequest):
			respondError(w, http.StatusBadRequest, "You can't send friend request to yourself")
		case errors.Is(err, models.ErrUserNotFound):
			respondError(w, http.StatusBadRequest, "Recipient not found")
		case errors.Is(err, models.ErrAlreadyFriends):
			respondError(w, http.StatusBadRequest, "You are already friends with this user")
		case errors.Is(err, models.ErrDuplicateRequest):
			respondError(w, http.StatusBadRequest, "A friend request already exists")
		default:
			logger.Log.Errorf("Failed to send friend request: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	respondJSON(w, http.StatusCreated, request)
}

// AcceptFriendRequestHandler accepts the friend request in the URL. Only
// the recorded recipient may accept; a repeated accept is a no-op success.
func (h *FriendHandler) AcceptFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	accepterID, ok := callerID(w, r)
	if !ok {
		return
	}

	requestID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	if err := h.Service.AcceptFriendRequest(r.Context(), requestID, accepterID); err != nil {
		switch {
		case errors.Is(err, models.ErrRequestNotFound):
			respondError(w, http.StatusBadRequest, "Friend request not found")
		case errors.Is(err, models.ErrNotRecipient):
			respondError(w, http.StatusForbidden, "You cannot accept this request")
		default:
			logger.Log.Errorf("Failed to accept friend request %s: %v", requestID.Hex(), err)
			respondError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Friend request accepted"})
}

// GetFriendRequestsHandler returns the caller's incoming pending requests
// plus the sent requests that were accepted.
func (h *FriendHandler) GetFriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	incoming, err := h.Service.IncomingRequests(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get incoming requests for %s: %v", userID.Hex(), err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	accepted, err := h.Service.AcceptedSentRequests(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get accepted requests for %s: %v", userID.Hex(), err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"incomingReqs": incoming,
		"acceptedReqs": accepted,
	})
}

// GetOutgoingFriendRequestsHandler returns the caller's pending sent
// requests.
func (h *FriendHandler) GetOutgoingFriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	outgoing, err := h.Service.OutgoingRequests(r.Context(), userID)
	if err != nil {
		logger.Log.Errorf("Failed to get outgoing requests for %s: %v", userID.Hex(), err)
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, outgoing)
}

// callerID resolves the authenticated user's ObjectID, writing the error
// response itself when the request is unauthenticated or malformed.
func callerID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return primitive.NilObjectID, false
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return primitive.NilObjectID, false
	}
	return userID, true
}
