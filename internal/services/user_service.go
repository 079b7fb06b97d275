package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ThinhDang464/Tomchat/internal/models"
	"github.com/ThinhDang464/Tomchat/internal/repository"
	"github.com/ThinhDang464/Tomchat/pkg/avatar"
	"github.com/ThinhDang464/Tomchat/pkg/email"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seams so tests can avoid network calls.
var (
	randomAvatar = avatar.Random
	sendEmail    = email.SendEmail
)

// OnboardInput carries the profile fields required to complete onboarding.
type OnboardInput struct {
	FullName         string
	Bio              string
	NativeLanguage   string
	LearningLanguage string
	Location         string
}

// UserService encapsulates account and profile business logic. The chat
// service is optional; when present, user records are mirrored into the
// hosted chat provider on signup and onboarding.
type UserService struct {
	repo repository.UserStore
	chat *ChatService

	frontendOrigin string
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo repository.UserStore, chat *ChatService, frontendOrigin string) *UserService {
	return &UserService{
		repo:           repo,
		chat:           chat,
		frontendOrigin: frontendOrigin,
	}
}

// RegisterUser creates a new account with a hashed password and a random
// avatar. The account starts not-onboarded and is excluded from
// recommendations until onboarding completes.
func (s *UserService) RegisterUser(ctx context.Context, fullName, userEmail, password string) (*models.User, error) {
	if fullName == "" || userEmail == "" || password == "" {
		return nil, fmt.Errorf("missing required user fields")
	}

	// The unique email index is the real guard; this check just gives a
	// friendlier error for the common case.
	if existing, _ := s.repo.GetUserByEmail(ctx, userEmail); existing != nil {
		logrus.WithField("email", userEmail).Warn("Email already in use")
		return nil, models.ErrEmailTaken
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		FullName:       fullName,
		Email:          userEmail,
		HashedPassword: string(hashedPwd),
		ProfilePic:     randomAvatar(ctx),
		IsOnboarded:    false,
		Friends:        []primitive.ObjectID{},
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.syncChatUser(ctx, createdUser)

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user if
// the credentials are valid. Both failure modes return the same error so
// callers cannot probe which emails exist.
func (s *UserService) AuthenticateUser(ctx context.Context, userEmail, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		logrus.WithField("email", userEmail).Warn("User not found during login")
		return nil, models.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", userEmail).Warn("Invalid credentials")
		return nil, models.ErrInvalidCredentials
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// OnboardUser fills in the profile fields and flips the onboarded flag,
// making the user visible to recommendations.
func (s *UserService) OnboardUser(ctx context.Context, userID primitive.ObjectID, input OnboardInput) (*models.User, error) {
	update := map[string]interface{}{
		"full_name":         input.FullName,
		"bio":               input.Bio,
		"native_language":   input.NativeLanguage,
		"learning_language": input.LearningLanguage,
		"location":          input.Location,
		"is_onboarded":      true,
	}

	user, err := s.repo.UpdateUser(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	s.syncChatUser(ctx, user)

	logrus.WithField("userID", user.ID.Hex()).Info("User onboarded")
	return user, nil
}

// GetUser retrieves a user by their hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}
	return s.repo.GetUserByID(ctx, objID)
}

// RequestPasswordReset issues a reset token valid for one hour and mails a
// reset link to the user.
func (s *UserService) RequestPasswordReset(ctx context.Context, userEmail string) error {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return models.ErrUserNotFound
	}

	resetToken := uuid.NewString()
	update := map[string]interface{}{
		"reset_token":     resetToken,
		"reset_token_exp": time.Now().Add(1 * time.Hour),
	}

	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to save reset token: %v", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", s.frontendOrigin, resetToken)
	body := fmt.Sprintf("Click the link below to reset your Tomchat password:\n\n%s", resetLink)

	if err := sendEmail(user.Email, "Reset Your Password", body); err != nil {
		return fmt.Errorf("failed to send password reset email: %v", err)
	}

	logrus.WithField("email", userEmail).Info("Password reset email sent")
	return nil
}

// ResetPassword validates the reset token and stores a new password hash.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := s.repo.GetUserByResetToken(ctx, token)
	if err != nil {
		return models.ErrResetTokenInvalid
	}

	if time.Now().After(user.ResetTokenExp) {
		return models.ErrResetTokenInvalid
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	update := map[string]interface{}{
		"hashed_password": string(hashedPwd),
		"reset_token":     "",
		"reset_token_exp": time.Time{},
	}

	if _, err := s.repo.UpdateUser(ctx, user.ID, update); err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}

	logrus.WithField("userID", user.ID.Hex()).Info("Password reset completed")
	return nil
}

// syncChatUser mirrors the user into the hosted chat provider. Best effort:
// chat stays usable on the next sync if the provider is down.
func (s *UserService) syncChatUser(ctx context.Context, user *models.User) {
	if s.chat == nil {
		return
	}
	if err := s.chat.UpsertUser(ctx, user); err != nil {
		logrus.WithError(err).WithField("userID", user.ID.Hex()).Warn("Failed to sync user with chat provider")
	}
}
