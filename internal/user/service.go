package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"farmlink-be/internal/auth"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

const recipientSearchLimit = 20

type Service interface {
	SignUp(ctx context.Context, in SignUpInput) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	CurrentUser(ctx context.Context, userID string) (*Account, error)
	EnsureProfile(ctx context.Context, userID string, role Role) (string, bool, error)
	FarmerID(ctx context.Context, userID string) (string, error)
	ConsumerID(ctx context.Context, userID string) (string, error)
	FarmerUserID(ctx context.Context, farmerID string) (string, error)
	UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*Account, error)

	LookupParties(ctx context.Context, userIDs []string) (map[string]Party, error)
	SearchRecipients(ctx context.Context, userID, term string) ([]Party, error)
}

type service struct {
	repo    Repository
	tokens  *auth.TokenManager
	revoker Revoker
}

func NewService(repo Repository, tokens *auth.TokenManager, revoker Revoker) Service {
	return &service{repo: repo, tokens: tokens, revoker: revoker}
}

func validateSignUp(in SignUpInput) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(in.Email)); err != nil {
		return ErrInvalidEmail
	}
	if len(in.Password) < minPasswordLength {
		return ErrWeakPassword
	}
	if strings.TrimSpace(in.Username) == "" {
		return ErrMissingUsername
	}
	if !in.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

func (s *service) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SignUp"),
	)

	if err := validateSignUp(in); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	u, err := s.repo.Create(ctx, &User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Username:     strings.TrimSpace(in.Username),
		PasswordHash: hashed,
		Role:         in.Role,
	})
	if err != nil {
		return nil, err
	}

	switch in.Role {
	case RoleFarmer:
		_, _, err = s.EnsureProfile(ctx, u.ID, RoleFarmer)
	case RoleConsumer:
		_, err = s.repo.CreateConsumer(ctx, &Consumer{UserID: u.ID, Location: strings.TrimSpace(in.Location)})
	}
	if err != nil {
		log.Error("failed to provision profile", zap.String("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	log.Info("user signed up", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return s.issue(u)
}

func (s *service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SignIn"),
	)

	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrUserNotFound) {
		log.Info("email not found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Error("failed to load user", zap.Error(err))
		return nil, err
	}

	if !CheckPasswordHash(password, u.PasswordHash) {
		log.Info("password mismatch", zap.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *service) issue(u *User) (*Session, error) {
	token, claims, err := s.tokens.Issue(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: u}, nil
}

func (s *service) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		// an unusable token is already signed out
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		logger.FromCtx(ctx).Error("failed to revoke token", zap.String("user_id", claims.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (s *service) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.revoker.IsRevoked(ctx, tokenID)
}

func (s *service) CurrentUser(ctx context.Context, userID string) (*Account, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	acc := &Account{User: u}
	switch u.Role {
	case RoleFarmer:
		acc.Farmer, err = s.repo.GetFarmerByUserID(ctx, userID)
	case RoleConsumer:
		acc.Consumer, err = s.repo.GetConsumerByUserID(ctx, userID)
	}
	if err != nil && !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}
	return acc, nil
}

// EnsureProfile returns the role profile id for the user, creating the profile
// with defaults when it does not exist yet. The boolean reports creation.
func (s *service) EnsureProfile(ctx context.Context, userID string, role Role) (string, bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "EnsureProfile"),
		zap.String("role", string(role)),
	)

	switch role {
	case RoleFarmer:
		f, err := s.repo.GetFarmerByUserID(ctx, userID)
		if err == nil {
			return f.ID, false, nil
		}
		if !errors.Is(err, ErrProfileNotFound) {
			return "", false, err
		}
		f, err = s.repo.CreateFarmer(ctx, &Farmer{
			UserID:       userID,
			FarmName:     DefaultFarmName,
			FarmLocation: DefaultFarmLocation,
		})
		if err != nil {
			return "", false, err
		}
		log.Info("farmer profile provisioned", zap.String("farmer_id", f.ID))
		return f.ID, true, nil

	case RoleConsumer:
		c, err := s.repo.GetConsumerByUserID(ctx, userID)
		if err == nil {
			return c.ID, false, nil
		}
		if !errors.Is(err, ErrProfileNotFound) {
			return "", false, err
		}
		c, err = s.repo.CreateConsumer(ctx, &Consumer{UserID: userID})
		if err != nil {
			return "", false, err
		}
		log.Info("consumer profile provisioned", zap.String("consumer_id", c.ID))
		return c.ID, true, nil
	}

	return "", false, ErrInvalidRole
}

func (s *service) FarmerID(ctx context.Context, userID string) (string, error) {
	f, err := s.repo.GetFarmerByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

func (s *service) ConsumerID(ctx context.Context, userID string) (string, error) {
	c, err := s.repo.GetConsumerByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (s *service) FarmerUserID(ctx context.Context, farmerID string) (string, error) {
	f, err := s.repo.GetFarmerByID(ctx, farmerID)
	if err != nil {
		return "", err
	}
	return f.UserID, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*Account, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateProfile"),
	)

	if in.Username != nil && strings.TrimSpace(*in.Username) == "" {
		return nil, ErrMissingUsername
	}

	u, err := s.repo.UpdateAccount(ctx, userID, in.Username, in.ContactInfo)
	if err != nil {
		return nil, err
	}

	acc := &Account{User: u}
	switch u.Role {
	case RoleFarmer:
		if _, _, err := s.EnsureProfile(ctx, userID, RoleFarmer); err != nil {
			return nil, err
		}
		acc.Farmer, err = s.repo.UpdateFarmer(ctx, userID, in.FarmName, in.FarmLocation, in.ProfileImage)
	case RoleConsumer:
		if _, _, err := s.EnsureProfile(ctx, userID, RoleConsumer); err != nil {
			return nil, err
		}
		acc.Consumer, err = s.repo.UpdateConsumer(ctx, userID, in.Location, in.ProfileImage)
	}
	if err != nil {
		log.Error("failed to update role profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	log.Info("profile updated", zap.String("user_id", userID))
	return acc, nil
}

// LookupParties resolves display names for a set of user ids: farmers first,
// then consumers for whatever is left. Ids that resolve to neither fall back
// to a short form of the id.
func (s *service) LookupParties(ctx context.Context, userIDs []string) (map[string]Party, error) {
	out := make(map[string]Party, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	farmers, err := s.repo.FarmersByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, f := range farmers {
		out[f.UserID] = Party{UserID: f.UserID, Name: f.Username, Info: f.FarmName, Role: RoleFarmer}
	}

	var rest []string
	for _, id := range userIDs {
		if _, ok := out[id]; !ok {
			rest = append(rest, id)
		}
	}

	if len(rest) > 0 {
		consumers, err := s.repo.ConsumersByUserIDs(ctx, rest)
		if err != nil {
			return nil, err
		}
		for _, c := range consumers {
			out[c.UserID] = Party{UserID: c.UserID, Name: c.Username, Info: c.Location, Role: RoleConsumer}
		}
	}

	for _, id := range rest {
		if _, ok := out[id]; !ok {
			out[id] = Party{UserID: id, Name: utils.ShortID(id)}
		}
	}
	return out, nil
}

// SearchRecipients lists accounts of the opposite role matching the term.
func (s *service) SearchRecipients(ctx context.Context, userID, term string) ([]Party, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)

	var out []Party
	if u.Role == RoleConsumer {
		farmers, err := s.repo.SearchFarmers(ctx, term, recipientSearchLimit)
		if err != nil {
			return nil, err
		}
		for _, f := range farmers {
			out = append(out, Party{UserID: f.UserID, Name: f.Username, Info: f.FarmName, Role: RoleFarmer})
		}
		return out, nil
	}

	consumers, err := s.repo.SearchConsumers(ctx, term, recipientSearchLimit)
	if err != nil {
		return nil, err
	}
	for _, c := range consumers {
		out = append(out, Party{UserID: c.UserID, Name: c.Username, Info: c.Location, Role: RoleConsumer})
	}
	return out, nil
}
