package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const KeyPrefix = "market_cart:"

// Store persists a user's cart as a JSON array of line items.
type Store interface {
	Load(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, userID string, c *Cart) error
	Delete(ctx context.Context, userID string) error
}

type redisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) Store {
	return &redisStore{client: client}
}

func key(userID string) string {
	return KeyPrefix + userID
}

// Load returns an empty cart when nothing is stored. Stored state that cannot
// be decoded is logged and discarded.
func (s *redisStore) Load(ctx context.Context, userID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		metrics.CartStoreErrors.WithLabelValues("read").Inc()
		logger.FromCtx(ctx).Error("failed to read cart", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFailedLoadCart, err)
	}

	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		metrics.CartStoreErrors.WithLabelValues("corrupt").Inc()
		logger.FromCtx(ctx).Warn("discarding unreadable cart",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return New(), nil
	}

	c := New()
	for _, li := range items {
		if li.ProductID == "" || li.Quantity <= 0 {
			continue
		}
		c.Items = append(c.Items, li)
	}
	return c, nil
}

func (s *redisStore) Save(ctx context.Context, userID string, c *Cart) error {
	items := c.Items
	if items == nil {
		items = []LineItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(userID), raw, 0).Err(); err != nil {
		metrics.CartStoreErrors.WithLabelValues("write").Inc()
		logger.FromCtx(ctx).Error("failed to write cart", zap.String("user_id", userID), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		metrics.CartStoreErrors.WithLabelValues("write").Inc()
		return fmt.Errorf("%w: %v", ErrFailedSaveCart, err)
	}
	return nil
}
