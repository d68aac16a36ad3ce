package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"farmlink-be/internal/events"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/storage"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

// Farmers resolves the farmer profile behind a signed-in account.
type Farmers interface {
	EnsureProfile(ctx context.Context, userID string, role user.Role) (string, bool, error)
	FarmerID(ctx context.Context, userID string) (string, error)
}

type Service interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	MyProducts(ctx context.Context, userID string) ([]Product, error)
	CreateProduct(ctx context.Context, userID string, in CreateProductInput) (*Product, error)
	BulkCreate(ctx context.Context, userID string, in []CreateProductInput) ([]Product, error)
	UploadImage(ctx context.Context, userID string, img ImageUpload, body io.Reader) (string, error)
	DeleteProduct(ctx context.Context, userID, productID string) error
}

type service struct {
	repo    Repository
	farmers Farmers
	images  storage.ImageStore
	events  events.Publisher
}

func NewService(repo Repository, farmers Farmers, images storage.ImageStore, publisher events.Publisher) Service {
	return &service{repo: repo, farmers: farmers, images: images, events: publisher}
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) MyProducts(ctx context.Context, userID string) ([]Product, error) {
	farmerID, err := s.farmers.FarmerID(ctx, userID)
	if errors.Is(err, user.ErrProfileNotFound) {
		return []Product{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListByFarmer(ctx, farmerID)
}

func (s *service) CreateProduct(ctx context.Context, userID string, in CreateProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if errs := validateInput(-1, in); len(errs) > 0 {
		return nil, errs[0]
	}

	farmerID, created, err := s.farmers.EnsureProfile(ctx, userID, user.RoleFarmer)
	if err != nil {
		log.Error("failed to resolve farmer profile", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("resolve farmer profile: %w", err)
	}
	if created {
		log.Info("created farmer profile on first product", zap.String("farmer_id", farmerID))
	}

	p := in.toProduct(farmerID)
	saved, err := s.repo.Create(ctx, &p)
	if err != nil {
		return nil, err
	}

	log.Info("product created",
		zap.String("product_id", saved.ID),
		zap.String("farmer_id", farmerID),
	)
	s.emitCreated(ctx, *saved)
	return saved, nil
}

// BulkCreate validates every entry before inserting anything, then stores
// the batch in one transaction.
func (s *service) BulkCreate(ctx context.Context, userID string, in []CreateProductInput) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "BulkCreate"),
	)

	if len(in) == 0 {
		return nil, ErrNoProducts
	}

	var errs ValidationErrors
	for i, item := range in {
		errs = append(errs, validateInput(i, item)...)
	}
	if len(errs) > 0 {
		log.Info("bulk submission rejected", zap.Int("errors", len(errs)))
		return nil, errs
	}

	farmerID, _, err := s.farmers.EnsureProfile(ctx, userID, user.RoleFarmer)
	if err != nil {
		log.Error("failed to resolve farmer profile", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("resolve farmer profile: %w", err)
	}

	batch := make([]Product, 0, len(in))
	for _, item := range in {
		batch = append(batch, item.toProduct(farmerID))
	}

	saved, err := s.repo.BulkCreate(ctx, batch)
	if err != nil {
		return nil, err
	}
	for _, p := range saved {
		s.emitCreated(ctx, p)
	}
	return saved, nil
}

func (s *service) emitCreated(ctx context.Context, p Product) {
	events.Emit(ctx, s.events, events.TopicProductCreated, p.ID, events.ProductCreated{
		ProductID: p.ID,
		FarmerID:  p.FarmerID,
		Name:      p.Name,
		Category:  p.Category,
	})
}

func (s *service) UploadImage(ctx context.Context, userID string, img ImageUpload, body io.Reader) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UploadImage"),
	)

	if s.images == nil {
		return "", ErrStorageDisabled
	}
	if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		return "", ErrInvalidImageType
	}
	if img.Size > MaxImageSize {
		return "", ErrImageTooLarge
	}

	farmerID, _, err := s.farmers.EnsureProfile(ctx, userID, user.RoleFarmer)
	if err != nil {
		return "", fmt.Errorf("resolve farmer profile: %w", err)
	}

	key := utils.ImageObjectKey(farmerID, img.Filename)
	url, err := s.images.Upload(ctx, key, io.LimitReader(body, MaxImageSize+1), img.ContentType)
	if err != nil {
		log.Error("failed to upload image", zap.String("key", key), zap.Error(err))
		return "", err
	}

	log.Info("image uploaded", zap.String("key", key), zap.Int64("size", img.Size))
	return url, nil
}

func (s *service) DeleteProduct(ctx context.Context, userID, productID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteProduct"),
		zap.String("product_id", productID),
	)

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	farmerID, err := s.farmers.FarmerID(ctx, userID)
	if errors.Is(err, user.ErrProfileNotFound) {
		return ErrForbidden
	}
	if err != nil {
		return err
	}
	if p.FarmerID != farmerID {
		log.Warn("delete attempted by non-owner", zap.String("user_id", userID))
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	if s.images != nil && p.ImageURL != nil {
		if key, ok := storage.KeyFromURL(s.images, *p.ImageURL); ok {
			if err := s.images.Delete(ctx, key); err != nil {
				log.Warn("failed to delete product image", zap.String("key", key), zap.Error(err))
			}
		}
	}

	log.Info("product deleted")
	return nil
}
