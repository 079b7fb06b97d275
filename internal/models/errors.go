package models

import "errors"

// Sentinel errors returned by the repository and service layers. Handlers
// map them onto HTTP statuses with errors.Is; anything else is reported as
// an internal server error without leaking storage details.
var (
	ErrSelfRequest        = errors.New("you can't send a friend request to yourself")
	ErrUserNotFound       = errors.New("user not found")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrAlreadyFriends     = errors.New("you are already friends with this user")
	ErrDuplicateRequest   = errors.New("a friend request already exists")
	ErrNotRecipient       = errors.New("you cannot accept this request")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
)
