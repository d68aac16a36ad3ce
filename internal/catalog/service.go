package catalog

import (
	"context"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/product"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

type State string

const (
	StateOK         State = "OK"
	StateError      State = "ERROR"
	StateNoProducts State = "NO_PRODUCTS"
	StateNoMatches  State = "NO_MATCHES"
)

const loadFailedMessage = "Failed to load products. Please try again."

// View is one rendering of the shopper catalog.
type View struct {
	State      State
	Message    string
	Products   []product.Product
	Categories []string
	Filtered   []product.Product
}

type ProfileEnsurer interface {
	EnsureProfile(ctx context.Context, userID string, role user.Role) (string, bool, error)
}

type Service interface {
	Browse(ctx context.Context, f Filter) *View
	Product(ctx context.Context, id string) (*product.Product, error)
}

type service struct {
	products product.Repository
	profiles ProfileEnsurer
}

func NewService(products product.Repository, profiles ProfileEnsurer) Service {
	return &service{products: products, profiles: profiles}
}

func (s *service) Browse(ctx context.Context, f Filter) *View {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Browse"),
	)

	s.provisionShopper(ctx)

	all, err := s.products.ListInStock(ctx)
	if err != nil {
		log.Error("failed to load catalog", zap.Error(err))
		return &View{State: StateError, Message: loadFailedMessage}
	}

	view := &View{
		State:      StateOK,
		Products:   all,
		Categories: Categories(all),
		Filtered:   Apply(all, f),
	}
	switch {
	case len(all) == 0:
		view.State = StateNoProducts
	case len(view.Filtered) == 0:
		view.State = StateNoMatches
	}

	log.Debug("catalog built",
		zap.Int("products", len(all)),
		zap.Int("filtered", len(view.Filtered)),
		zap.String("state", string(view.State)),
	)
	return view
}

// provisionShopper makes sure a signed-in consumer has a profile. Browsing
// continues when it fails.
func (s *service) provisionShopper(ctx context.Context) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || s.profiles == nil {
		return
	}
	if utils.GetUserRoleFromContext(ctx) != string(user.RoleConsumer) {
		return
	}
	if _, _, err := s.profiles.EnsureProfile(ctx, userID, user.RoleConsumer); err != nil {
		logger.FromCtx(ctx).Warn("consumer profile provisioning failed", zap.Error(err))
	}
}

func (s *service) Product(ctx context.Context, id string) (*product.Product, error) {
	return s.products.GetByID(ctx, id)
}
