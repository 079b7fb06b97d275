package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThinhDang464/Tomchat/internal/models"
	jwtutil "github.com/ThinhDang464/Tomchat/pkg/jwt"
	"github.com/ThinhDang464/Tomchat/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) doJSON(t *testing.T, method, path string, body interface{}, as *models.User) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, err := jwtutil.GenerateToken(as.ID.Hex(), as.Email, testSecret, time.Hour)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == middleware.AuthCookieName {
			return cookie
		}
	}
	return nil
}

func TestLoginEndpoint(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)

	rec := f.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    alice.Email,
		"password": "secret123",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie, "login must set the session cookie")
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	claims, err := jwtutil.ValidateToken(cookie.Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, alice.ID.Hex(), claims.UserID)
}

func TestLoginEndpoint_Failures(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)

	rec := f.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    alice.Email,
		"password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.doJSON(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": alice.Email,
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	f := newFixture()

	rec := f.doJSON(t, http.MethodPost, "/api/auth/logout", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge, "cookie must be expired")
}

func TestOnboardingEndpoint(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", false)

	body := map[string]string{
		"fullName":         "Alice Nguyen",
		"bio":              "Learning Spanish",
		"nativeLanguage":   "English",
		"learningLanguage": "Spanish",
		"location":         "Melbourne",
	}

	// Unauthenticated.
	rec := f.doJSON(t, http.MethodPost, "/api/auth/onboarding", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Missing fields.
	rec = f.doJSON(t, http.MethodPost, "/api/auth/onboarding", map[string]string{
		"fullName": "Alice Nguyen",
	}, alice)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.doJSON(t, http.MethodPost, "/api/auth/onboarding", body, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool        `json:"success"`
		User    models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.User.IsOnboarded)
	assert.Equal(t, "Spanish", resp.User.LearningLanguage)
}

func TestMeEndpoint(t *testing.T) {
	f := newFixture()
	alice := f.seedUser(t, "alice", true)

	rec := f.doJSON(t, http.MethodGet, "/api/auth/me", nil, alice)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, alice.ID, resp.User.ID)

	rec = f.doJSON(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
