package graph

import (
	"context"
	"strings"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/transport"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

func (r *Resolver) me(ctx context.Context, _ graphql.ResolveParams) (interface{}, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, nil
	}

	acc, err := r.Users.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapAccount(acc), nil
}

func (r *Resolver) signUp(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	log := logger.FromCtx(ctx)
	in := inputArg(p, "input")

	sess, err := r.Users.SignUp(ctx, user.SignUpInput{
		Email:    stringArg(in, "email"),
		Password: stringArg(in, "password"),
		Username: stringArg(in, "username"),
		Role:     user.Role(stringArg(in, "role")),
		Location: stringArg(in, "location"),
	})
	if err != nil {
		log.Warn("sign up failed", zap.String("email", stringArg(in, "email")), zap.Error(err))
		return nil, err
	}

	log.Info("user signed up",
		zap.String("user_id", sess.User.ID),
		zap.String("role", string(sess.User.Role)),
	)

	transport.SetSessionCookie(ctx, sess.Token, sess.ExpiresAt, r.SecureCookies)
	return mapSession(sess), nil
}

func (r *Resolver) signIn(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	email := strings.TrimSpace(stringArg(p.Args, "email"))

	sess, err := r.Users.SignIn(ctx, email, stringArg(p.Args, "password"))
	if err != nil {
		logger.FromCtx(ctx).Warn("sign in failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	transport.SetSessionCookie(ctx, sess.Token, sess.ExpiresAt, r.SecureCookies)
	return mapSession(sess), nil
}

// signOut revokes the presented token and clears the cookie. Signing out
// without a session is not an error.
func (r *Resolver) signOut(ctx context.Context, _ graphql.ResolveParams) (interface{}, error) {
	if token := transport.AccessToken(ctx); token != "" {
		if err := r.Users.SignOut(ctx, token); err != nil {
			return nil, err
		}
	}
	transport.ClearSessionCookie(ctx, r.SecureCookies)
	return true, nil
}

func (r *Resolver) updateProfile(ctx context.Context, p graphql.ResolveParams) (interface{}, error) {
	userID, err := utils.RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	in := inputArg(p, "input")
	acc, err := r.Users.UpdateProfile(ctx, userID, user.UpdateProfileInput{
		Username:     optionalString(in, "username"),
		ContactInfo:  optionalString(in, "contactInfo"),
		FarmName:     optionalString(in, "farmName"),
		FarmLocation: optionalString(in, "farmLocation"),
		Location:     optionalString(in, "location"),
		ProfileImage: optionalString(in, "profileImage"),
	})
	if err != nil {
		return nil, err
	}
	return mapAccount(acc), nil
}
