package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ThinhDang464/Tomchat/internal/config"
	"github.com/ThinhDang464/Tomchat/internal/models"
	"github.com/ThinhDang464/Tomchat/internal/services"
	"github.com/ThinhDang464/Tomchat/internal/testutil"
	jwtutil "github.com/ThinhDang464/Tomchat/pkg/jwt"
	"github.com/ThinhDang464/Tomchat/pkg/logger"
	"github.com/ThinhDang464/Tomchat/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

func init() {
	logger.InitLogger()
}

type fixture struct {
	router      *mux.Router
	userStore   *testutil.MemUserStore
	friendStore *testutil.MemFriendStore
}

// newFixture wires the handlers onto a router mirroring the real routes.
func newFixture() *fixture {
	cfg := &config.Config{
		JWTSecret:   testSecret,
		TokenExpiry: time.Hour,
		Env:         "test",
	}

	userStore := testutil.NewMemUserStore()
	friendStore := testutil.NewMemFriendStore()
	userService := services.NewUserService(userStore, nil, "http://localhost:5173")
	friendService := services.NewFriendService(friendStore, userStore)

	authHandler := NewAuthHandler(userService, cfg)
	friendHandler := NewFriendHandler(friendService)

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", authHandler.LoginHandler).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.LogoutHandler).Methods("POST")

	protectedAuthRoutes := api.PathPrefix("/auth").Subrouter()
	protectedAuthRoutes.Use(middleware.AuthMiddleware(testSecret))
	protectedAuthRoutes.HandleFunc("/onboarding", authHandler.OnboardHandler).Methods("POST")
	protectedAuthRoutes.HandleFunc("/me", authHandler.MeHandler).Methods("GET")

	userRoutes := api.PathPrefix("/users").Subrouter()
	userRoutes.Use(middleware.AuthMiddleware(testSecret))
	userRoutes.HandleFunc("", friendHandler.GetRecommendedUsersHandler).Methods("GET")
	userRoutes.HandleFunc("/friends", friendHandler.GetFriendsHandler).Methods("GET")
	userRoutes.HandleFunc("/friend-request/{id}", friendHandler.SendFriendRequestHandler).Methods("POST")
	userRoutes.HandleFunc("/friend-request/{id}/accept", friendHandler.AcceptFriendRequestHandler).Methods("PUT")
	userRoutes.HandleFunc("/friend-requests", friendHandler.GetFriendRequestsHandler).Methods("GET")
	userRoutes.HandleFunc("/outgoing-friend-requests", friendHandler.GetOutgoingFriendRequestsHandler).Methods("GET")

	return &fixture{router: router, userStore: userStore, friendStore: friendStore}
}

func (f *fixture) seedUser(t *testing.T, name string, onboarded bool) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	return f.userStore.AddUser(&models.User{
		FullName:       name,
		Email:          name + "@example.com",
		HashedPassword: string(hashed),
		IsOnboarded:    onboarded,
	})
}

func (f *fixture) do(t *testing.T, method, path string, as *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if as != nil {
		token, err := jwtutil.GenerateToken(as.ID.Hex(), as.Email, testSecret, time.Hour)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSendFriendRequestEndpoint(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)
	bob := f.seedUser(t, "bob", true)

	rec := f.do(t, http.MethodPost, "/api/users/friend-request/"+bob.ID.Hex(), alice)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.FriendRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, alice.ID, created.SenderID)
	assert.Equal(t, bob.ID, created.RecipientID)
	assert.Equal(t, models.RequestPending, created.Status)
}

func TestSendFriendRequestEndpoint_Failures(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)
	bob := f.seedUser(t, "bob", true)

	// Unauthenticated.
	rec := f.do(t, http.MethodPost, "/api/users/friend-request/"+bob.ID.Hex(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Self request.
	rec = f.do(t, http.MethodPost, "/api/users/friend-request/"+alice.ID.Hex(), alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Missing recipient.
	rec = f.do(t, http.MethodPost, "/api/users/friend-request/"+primitive.NewObjectID().Hex(), alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Duplicate, opposite direction.
	rec = f.do(t, http.MethodPost, "/api/users/friend-request/"+bob.ID.Hex(), alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/users/friend-request/"+alice.ID.Hex(), bob)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcceptFriendRequestEndpoint(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)
	bob := f.seedUser(t, "bob", true)
	carol := f.seedUser(t, "carol", true)

	rec := f.do(t, http.MethodPost, "/api/users/friend-request/"+bob.ID.Hex(), alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.FriendRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	acceptPath := fmt.Sprintf("/api/users/friend-request/%s/accept", created.ID.Hex())

	// Only the recipient may accept.
	rec = f.do(t, http.MethodPut, acceptPath, carol)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPut, acceptPath, bob)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Repeat accept is a no-op success.
	rec = f.do(t, http.MethodPut, acceptPath, bob)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Unknown request id.
	rec = f.do(t, http.MethodPut, fmt.Sprintf("/api/users/friend-request/%s/accept", primitive.NewObjectID().Hex()), bob)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFriendRequestListingEndpoints(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)
	bob := f.seedUser(t, "bob", true)

	rec := f.do(t, http.MethodPost, "/api/users/friend-request/"+bob.ID.Hex(), alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/users/friend-requests", bob)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		IncomingReqs []models.IncomingRequest `json:"incomingReqs"`
		AcceptedReqs []models.OutgoingRequest `json:"acceptedReqs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.IncomingReqs, 1)
	assert.Equal(t, "alice", listing.IncomingReqs[0].Sender.FullName)
	assert.Empty(t, listing.AcceptedReqs)

	rec = f.do(t, http.MethodGet, "/api/users/outgoing-friend-requests", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var outgoing []models.OutgoingRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outgoing))
	require.Len(t, outgoing, 1)
	assert.Equal(t, "bob", outgoing[0].Recipient.FullName)
}

func TestRecommendationsEndpoint(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)
	f.seedUser(t, "stranger", true)
	f.seedUser(t, "newbie", false)

	rec := f.do(t, http.MethodGet, "/api/users", alice)

	require.Equal(t, http.StatusOK, rec.Code)
	var recommended []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recommended))
	require.Len(t, recommended, 1)
	assert.Equal(t, "stranger", recommended[0].FullName)
}

func TestFriendsEndpoint(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)
	bob := f.seedUser(t, "bob", true)

	rec := f.do(t, http.MethodPost, "/api/users/friend-request/"+bob.ID.Hex(), alice)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.FriendRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = f.do(t, http.MethodPut, fmt.Sprintf("/api/users/friend-request/%s/accept", created.ID.Hex()), bob)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/users/friends", alice)
	require.Equal(t, http.StatusOK, rec.Code)
	var friends []models.UserSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &friends))
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].FullName)
}
