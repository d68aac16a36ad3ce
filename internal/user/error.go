package user

import "errors"

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrTokenRevoked       = errors.New("token has been revoked")

	ErrInvalidEmail    = errors.New("a valid email is required")
	ErrWeakPassword    = errors.New("password must be at least 6 characters")
	ErrMissingUsername = errors.New("username is required")
	ErrInvalidRole     = errors.New("role must be farmer or consumer")

	pgUniqueViolation = "23505"
)
