package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ThinhDang464/Tomchat/internal/config"
	"github.com/ThinhDang464/Tomchat/internal/models"
	"github.com/ThinhDang464/Tomchat/internal/services"
	jwtutil "github.com/ThinhDang464/Tomchat/pkg/jwt"
	"github.com/ThinhDang464/Tomchat/pkg/logger"
	"github.com/ThinhDang464/Tomchat/pkg/middleware"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate = validator.New()

// AuthHandler handles signup, login, logout, onboarding and the session
// cookie lifecycle.
type AuthHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewAuthHandler creates a new instance of AuthHandler.
func NewAuthHandler(service *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Service: service,
		Config:  cfg,
	}
}

type signupRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignupHandler registers a new account and starts a session.
func (h *AuthHandler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, signupValidationMessage(err))
		return
	}

	user, err := h.Service.RegisterUser(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Log.WithError(err).Error("Failed to register user")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if !h.startSession(w, user) {
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// signupValidationMessage keeps the original client-facing wording for the
// common validation failures.
func signupValidationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return "Invalid request payload"
	}
	for _, fieldErr := range fieldErrors {
		switch {
		case fieldErr.Tag() == "required":
			return "All fields are required"
		case fieldErr.Field() == "Password":
			return "Passwords must be at least 6 characters"
		case fieldErr.Field() == "Email":
			return "Invalid email format"
		}
	}
	return "Invalid request payload"
}

// LoginHandler authenticates an existing account and starts a session.
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if credentials.Email == "" || credentials.Password == "" {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !h.startSession(w, user) {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// LogoutHandler clears the session cookie.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.Config.Env == "production",
	})
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logout successful",
	})
}

type onboardRequest struct {
	FullName         string `json:"fullName" validate:"required"`
	Bio              string `json:"bio" validate:"required"`
	NativeLanguage   string `json:"nativeLanguage" validate:"required"`
	LearningLanguage string `json:"learningLanguage" validate:"required"`
	Location         string `json:"location" validate:"required"`
}

// OnboardHandler completes the profile and makes the user visible to
// recommendations.
func (h *AuthHandler) OnboardHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req onboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.Service.OnboardUser(r.Context(), userID, services.OnboardInput{
		FullName:         req.FullName,
		Bio:              req.Bio,
		NativeLanguage:   req.NativeLanguage,
		LearningLanguage: req.LearningLanguage,
		Location:         req.Location,
	})
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		logger.Log.WithError(err).Error("Failed to onboard user")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// MeHandler returns the authenticated user's profile.
func (h *AuthHandler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// RequestPasswordResetHandler mails a reset link to the given email.
func (h *AuthHandler) RequestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}
	defer r.Body.Close()

	if err := h.Service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			respondError(w, http.StatusBadRequest, "No account found with this email")
			return
		}
		logger.Log.WithError(err).Error("Failed to request password reset")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

// ResetPasswordHandler stores a new password for a valid reset token.
func (h *AuthHandler) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	defer r.Body.Close()

	if len(req.Password) < 6 {
		respondError(w, http.StatusBadRequest, "Passwords must be at least 6 characters")
		return
	}

	if err := h.Service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, models.ErrResetTokenInvalid) {
			respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		logger.Log.WithError(err).Error("Failed to reset password")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password updated"})
}

// startSession issues the jwt cookie. Returns false when token generation
// fails, in which case the error response has already been written.
func (h *AuthHandler) startSession(w http.ResponseWriter, user *models.User) bool {
	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to generate JWT token")
		respondError(w, http.StatusInternalServerError, "Internal Server Error")
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Config.TokenExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   h.Config.Env == "production",
	})
	return true
}
