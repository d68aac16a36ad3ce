package utils

import (
	"context"
	"errors"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "email"
	UserRoleKey  contextKey = "role"
	TokenIDKey   contextKey = "token_id"
)

const (
	RoleFarmer   = "farmer"
	RoleConsumer = "consumer"
)

var ErrUnauthenticated = errors.New("not authenticated")

// SetUserContext stores the authenticated principal (called by the auth middleware).
func SetUserContext(ctx context.Context, id, email, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

// RequireUser returns the caller's user id or ErrUnauthenticated.
func RequireUser(ctx context.Context) (string, error) {
	id, ok := GetUserIDFromContext(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id, nil
}

func WithTokenID(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, TokenIDKey, jti)
}

func GetTokenIDFromContext(ctx context.Context) string {
	jti, _ := ctx.Value(TokenIDKey).(string)
	return jti
}
