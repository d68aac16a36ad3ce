package cart

import (
	"context"
	"testing"

	"farmlink-be/internal/logger"
	"farmlink-be/internal/product"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewRedisStore(client)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestStore(t)

	c := New()
	img := "https://cdn.test/a.jpg"
	c.Add(product.Product{ID: "p-1", Name: "Tomatoes", ImageURL: &img, Price: d("10.00")}, 2)
	c.Add(product.Product{ID: "p-2", Name: "Eggs", Price: d("3.25")}, 1)

	require.NoError(t, store.Save(ctx, "u-1", c))
	assert.True(t, mr.Exists("market_cart:u-1"))

	loaded, err := store.Load(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Tomatoes", loaded.Items[0].ProductName)
	assert.Equal(t, img, *loaded.Items[0].ProductImage)
	assert.True(t, d("23.25").Equal(loaded.TotalPrice()))
}

func TestRedisStore_Missing(t *testing.T) {
	_, store := newTestStore(t)

	c, err := store.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestRedisStore_CorruptStateIsEmpty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	defer logger.Replace(zap.New(core))()

	mr, store := newTestStore(t)
	require.NoError(t, mr.Set("market_cart:u-1", "{not json"))

	c, err := store.Load(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 1, logs.FilterMessage("discarding unreadable cart").Len())
}

func TestRedisStore_DropsInvalidLines(t *testing.T) {
	mr, store := newTestStore(t)
	require.NoError(t, mr.Set("market_cart:u-1",
		`[{"productId":"p-1","productName":"A","quantity":2,"pricePerItem":"1.5"},{"productId":"","quantity":1},{"productId":"p-3","quantity":0}]`))

	c, err := store.Load(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p-1", c.Items[0].ProductID)
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	mr, store := newTestStore(t)

	c := New()
	c.Add(product.Product{ID: "p-1", Price: d("1")}, 1)
	require.NoError(t, store.Save(ctx, "u-1", c))
	require.NoError(t, store.Delete(ctx, "u-1"))
	assert.False(t, mr.Exists("market_cart:u-1"))
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, store := newTestStore(t)
	mr.Close()

	_, err := store.Load(context.Background(), "u-1")
	assert.ErrorIs(t, err, ErrFailedLoadCart)
	assert.ErrorIs(t, store.Save(context.Background(), "u-1", New()), ErrFailedSaveCart)
}
