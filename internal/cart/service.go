package cart

import (
	"context"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/product"

	"go.uber.org/zap"
)

// ProductReader supplies the name, image and price captured on add.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// Service applies cart mutations and persists the result after each one.
type Service interface {
	Get(ctx context.Context, userID string) (*Cart, error)
	Add(ctx context.Context, userID, productID string, quantity int) (*Cart, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*Cart, error)
	Remove(ctx context.Context, userID, productID string) (*Cart, error)
	Clear(ctx context.Context, userID string) error
}

type service struct {
	store    Store
	products ProductReader
}

func NewService(store Store, products ProductReader) Service {
	return &service{store: store, products: products}
}

func (s *service) Get(ctx context.Context, userID string) (*Cart, error) {
	return s.store.Load(ctx, userID)
}

func (s *service) Add(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddToCart"),
		zap.String("product_id", productID),
	)

	if productID == "" {
		return nil, ErrInvalidProduct
	}

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return c, nil
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		log.Info("product lookup failed", zap.Error(err))
		return nil, err
	}
	if !p.InStock() {
		return nil, ErrOutOfStock
	}

	c.Add(*p, quantity)
	if err := s.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}

	log.Debug("cart updated",
		zap.Int("quantity", quantity),
		zap.Int("total_items", c.TotalItems()),
	)
	return c, nil
}

func (s *service) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*Cart, error) {
	return s.mutate(ctx, userID, func(c *Cart) { c.SetQuantity(productID, quantity) })
}

func (s *service) Remove(ctx context.Context, userID, productID string) (*Cart, error) {
	return s.mutate(ctx, userID, func(c *Cart) { c.Remove(productID) })
}

func (s *service) Clear(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, userID)
}

func (s *service) mutate(ctx context.Context, userID string, fn func(*Cart)) (*Cart, error) {
	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	fn(c)
	if err := s.store.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}
