package graph

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmlink-be/internal/auth"
	"farmlink-be/internal/cart"
	"farmlink-be/internal/catalog"
	"farmlink-be/internal/checkout"
	"farmlink-be/internal/message"
	"farmlink-be/internal/order"
	"farmlink-be/internal/product"
	"farmlink-be/internal/transport"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"github.com/graphql-go/graphql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ---------- MOCKS ---------- */

type MockUserService struct {
	mock.Mock
	user.Service
}

func (m *MockUserService) SignIn(ctx context.Context, email, password string) (*user.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Session), args.Error(1)
}

func (m *MockUserService) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockUserService) CurrentUser(ctx context.Context, userID string) (*user.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.Account), args.Error(1)
}

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Browse(ctx context.Context, f catalog.Filter) *catalog.View {
	return m.Called(ctx, f).Get(0).(*catalog.View)
}

func (m *MockCatalog) Product(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockProductService struct {
	mock.Mock
	product.Service
}

func (m *MockProductService) CreateProduct(ctx context.Context, userID string, in product.CreateProductInput) (*product.Product, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockCartService struct {
	mock.Mock
	cart.Service
}

func (m *MockCartService) Add(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

type MockCheckout struct {
	mock.Mock
	checkout.Service
}

func (m *MockCheckout) PlaceOrder(ctx context.Context, userID string, in checkout.Input) (*checkout.Result, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.Result), args.Error(1)
}

func (m *MockCheckout) Order(ctx context.Context, userID, orderID string) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockCheckout) ConfirmPayment(ctx context.Context, orderID, sessionID string) (*order.Order, error) {
	args := m.Called(ctx, orderID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockMessages struct {
	mock.Mock
	message.Service
}

func (m *MockMessages) Thread(ctx context.Context, userID, counterpartyID string) ([]message.Message, error) {
	args := m.Called(ctx, userID, counterpartyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]message.Message), args.Error(1)
}

func (m *MockMessages) CounterpartyForFarmer(ctx context.Context, farmerID string) (string, error) {
	args := m.Called(ctx, farmerID)
	return args.String(0), args.Error(1)
}

/* ---------- HELPERS ---------- */

func run(t *testing.T, r *Resolver, ctx context.Context, query string) *graphql.Result {
	t.Helper()
	schema, err := NewSchema(r)
	require.NoError(t, err)
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
		Context:       ctx,
	})
}

func errorCode(t *testing.T, res *graphql.Result) string {
	t.Helper()
	require.NotEmpty(t, res.Errors)
	code, _ := res.Errors[0].Extensions["code"].(string)
	return code
}

func consumerCtx() context.Context {
	return utils.SetUserContext(context.Background(), "u-1", "ada@example.com", utils.RoleConsumer)
}

func farmerCtx() context.Context {
	return utils.SetUserContext(context.Background(), "u-2", "farm@example.com", utils.RoleFarmer)
}

/* ---------- TESTS ---------- */

func TestNewSchema(t *testing.T) {
	_, err := NewSchema(&Resolver{})
	assert.NoError(t, err)
}

func TestQuery_Products(t *testing.T) {
	ctx := context.Background()
	cat := new(MockCatalog)

	tomatoes := product.Product{
		ID: "p-1", Name: "Tomatoes", Price: decimal.RequireFromString("12.5"),
		StockLevel: 3, Category: "Vegetables", Unit: "kg",
	}
	cat.On("Browse", ctx, catalog.Filter{Category: "Vegetables", Query: "tom"}).Return(&catalog.View{
		State:      catalog.StateOK,
		Products:   []product.Product{tomatoes},
		Categories: []string{"Vegetables"},
		Filtered:   []product.Product{tomatoes},
	})

	res := run(t, &Resolver{Catalog: cat}, ctx,
		`{ products(category: "Vegetables", search: "tom") { state categories filtered { name price unit } } }`)
	require.Empty(t, res.Errors)

	data := res.Data.(map[string]interface{})["products"].(map[string]interface{})
	assert.Equal(t, "OK", data["state"])
	filtered := data["filtered"].([]interface{})
	require.Len(t, filtered, 1)
	assert.Equal(t, "12.50", filtered[0].(map[string]interface{})["price"])
	cat.AssertExpectations(t)
}

func TestQuery_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	cat := new(MockCatalog)
	cat.On("Product", ctx, "nope").Return(nil, product.ErrProductNotFound)

	res := run(t, &Resolver{Catalog: cat}, ctx, `{ product(id: "nope") { id } }`)
	assert.Equal(t, CodeNotFound, errorCode(t, res))
}

func TestQuery_MeAnonymous(t *testing.T) {
	res := run(t, &Resolver{Users: new(MockUserService)}, context.Background(), `{ me { user { id } } }`)
	require.Empty(t, res.Errors)
	assert.Nil(t, res.Data.(map[string]interface{})["me"])
}

func TestMutation_SignInSetsCookie(t *testing.T) {
	users := new(MockUserService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	ctx := transport.WithHTTP(context.Background(), req, w)

	users.On("SignIn", ctx, "ada@example.com", "secret1").Return(&user.Session{
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      &user.User{ID: "u-1", Email: "ada@example.com", Username: "ada", Role: user.RoleConsumer},
	}, nil)

	res := run(t, &Resolver{Users: users}, ctx,
		`mutation { signIn(email: " ada@example.com ", password: "secret1") { token user { id role } } }`)
	require.Empty(t, res.Errors)

	payload := res.Data.(map[string]interface{})["signIn"].(map[string]interface{})
	assert.Equal(t, "tok", payload["token"])
	assert.Equal(t, "CONSUMER", payload["user"].(map[string]interface{})["role"])

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.AccessTokenCookie, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestMutation_SignInBadCredentials(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserService)
	users.On("SignIn", ctx, "ada@example.com", "nope").Return(nil, user.ErrInvalidCredentials)

	res := run(t, &Resolver{Users: users}, ctx,
		`mutation { signIn(email: "ada@example.com", password: "nope") { token } }`)
	assert.Equal(t, CodeUnauthenticated, errorCode(t, res))
}

func TestMutation_SignOutRevokesPresentedToken(t *testing.T) {
	users := new(MockUserService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", nil)
	req.Header.Set("Authorization", "Bearer tok")
	ctx := transport.WithHTTP(consumerCtx(), req, w)

	users.On("SignOut", ctx, "tok").Return(nil)

	res := run(t, &Resolver{Users: users}, ctx, `mutation { signOut }`)
	require.Empty(t, res.Errors)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	users.AssertExpectations(t)
}

func TestMutation_CreateProductRequiresFarmer(t *testing.T) {
	products := new(MockProductService)
	query := `mutation { createProduct(input: {name: "Eggs", description: "Free range", price: "20", stockLevel: 5}) { id price } }`

	t.Run("Consumer", func(t *testing.T) {
		res := run(t, &Resolver{Products: products}, consumerCtx(), query)
		assert.Equal(t, CodeForbidden, errorCode(t, res))
	})

	t.Run("Anonymous", func(t *testing.T) {
		res := run(t, &Resolver{Products: products}, context.Background(), query)
		assert.Equal(t, CodeUnauthenticated, errorCode(t, res))
	})

	t.Run("Farmer", func(t *testing.T) {
		ctx := farmerCtx()
		products.On("CreateProduct", ctx, "u-2", mock.MatchedBy(func(in product.CreateProductInput) bool {
			return in.Name == "Eggs" && in.Price.Equal(decimal.NewFromInt(20)) && in.StockLevel == 5
		})).Return(&product.Product{ID: "p-9", Name: "Eggs", Price: decimal.NewFromInt(20)}, nil)

		res := run(t, &Resolver{Products: products}, ctx, query)
		require.Empty(t, res.Errors)
		created := res.Data.(map[string]interface{})["createProduct"].(map[string]interface{})
		assert.Equal(t, "20.00", created["price"])
	})

	t.Run("BadPrice", func(t *testing.T) {
		res := run(t, &Resolver{Products: products}, farmerCtx(),
			`mutation { createProduct(input: {name: "Eggs", description: "x", price: "cheap", stockLevel: 5}) { id } }`)
		assert.Equal(t, CodeBadUserInput, errorCode(t, res))
	})
}

func TestMutation_AddToCart(t *testing.T) {
	ctx := consumerCtx()
	carts := new(MockCartService)

	carts.On("Add", ctx, "u-1", "p-1", 1).Return(cart.New(
		cart.LineItem{ProductID: "p-1", ProductName: "Tomatoes", Quantity: 1, PricePerItem: decimal.RequireFromString("49.99")},
	), nil)

	res := run(t, &Resolver{Carts: carts}, ctx,
		`mutation { addToCart(productId: "p-1") { totalItems totalPrice deliveryFee total } }`)
	require.Empty(t, res.Errors)

	c := res.Data.(map[string]interface{})["addToCart"].(map[string]interface{})
	assert.Equal(t, 1, c["totalItems"])
	assert.Equal(t, "49.99", c["totalPrice"])
	assert.Equal(t, "25.00", c["deliveryFee"])
	assert.Equal(t, "74.99", c["total"])
}

func TestMutation_Checkout(t *testing.T) {
	query := `mutation { checkout(input: {deliveryAddress: "", contactNumber: "7123"}) { orderId redirectUrl } }`

	t.Run("ValidationError", func(t *testing.T) {
		ctx := consumerCtx()
		svc := new(MockCheckout)
		svc.On("PlaceOrder", ctx, "u-1", mock.Anything).
			Return(nil, &checkout.ValidationError{Field: "deliveryAddress", Message: "is required"})

		res := run(t, &Resolver{Checkout: svc}, ctx, query)
		assert.Equal(t, CodeBadUserInput, errorCode(t, res))
	})

	t.Run("FailureIsGeneric", func(t *testing.T) {
		ctx := consumerCtx()
		svc := new(MockCheckout)
		svc.On("PlaceOrder", ctx, "u-1", mock.Anything).
			Return(nil, errors.Join(checkout.ErrCheckoutFailed, errors.New("pq: connection refused")))

		res := run(t, &Resolver{Checkout: svc}, ctx, query)
		assert.Equal(t, CodeInternal, errorCode(t, res))
		assert.Equal(t, checkout.ErrCheckoutFailed.Error(), res.Errors[0].Message)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		res := run(t, &Resolver{Checkout: new(MockCheckout)}, context.Background(), query)
		assert.Equal(t, CodeUnauthenticated, errorCode(t, res))
	})
}

func TestQuery_OrderOwnership(t *testing.T) {
	ctx := consumerCtx()
	svc := new(MockCheckout)
	svc.On("Order", ctx, "u-1", "o-2").Return(nil, order.ErrOrderNotFound)

	res := run(t, &Resolver{Checkout: svc}, ctx, `{ order(id: "o-2") { id status } }`)
	assert.Equal(t, CodeNotFound, errorCode(t, res))
}

func TestMutation_ConfirmPayment(t *testing.T) {
	query := `mutation { confirmPayment(orderId: "o-1", sessionId: "cs_1") { id status } }`

	t.Run("Confirms", func(t *testing.T) {
		ctx := consumerCtx()
		svc := new(MockCheckout)
		svc.On("Order", ctx, "u-1", "o-1").Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil)
		svc.On("ConfirmPayment", ctx, "o-1", "cs_1").Return(&order.Order{ID: "o-1", Status: order.StatusConfirmed}, nil)

		res := run(t, &Resolver{Checkout: svc}, ctx, query)
		require.Empty(t, res.Errors)
		data := res.Data.(map[string]interface{})["confirmPayment"].(map[string]interface{})
		assert.Equal(t, "CONFIRMED", data["status"])
		svc.AssertExpectations(t)
	})

	t.Run("SessionMismatch", func(t *testing.T) {
		ctx := consumerCtx()
		svc := new(MockCheckout)
		svc.On("Order", ctx, "u-1", "o-1").Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil)
		svc.On("ConfirmPayment", ctx, "o-1", "cs_1").Return(nil, checkout.ErrSessionMismatch)

		res := run(t, &Resolver{Checkout: svc}, ctx, query)
		assert.Equal(t, CodeBadUserInput, errorCode(t, res))
	})

	t.Run("SessionIsRequired", func(t *testing.T) {
		res := run(t, &Resolver{Checkout: new(MockCheckout)}, consumerCtx(),
			`mutation { confirmPayment(orderId: "o-1") { id } }`)
		assert.NotEmpty(t, res.Errors)
	})
}

func TestQuery_ThreadByFarmerID(t *testing.T) {
	ctx := consumerCtx()
	msgs := new(MockMessages)

	msgs.On("CounterpartyForFarmer", ctx, "farmer-1").Return("u-2", nil)
	msgs.On("Thread", ctx, "u-1", "u-2").Return([]message.Message{
		{ID: "m-1", SenderID: "u-1", ReceiverID: "u-2", Content: "hello", Timestamp: time.Now()},
		{ID: "m-2", SenderID: "u-2", ReceiverID: "u-1", Content: "hi", Timestamp: time.Now(), IsRead: true},
	}, nil)

	res := run(t, &Resolver{Messages: msgs}, ctx, `{ thread(farmerId: "farmer-1") { id isMine isRead } }`)
	require.Empty(t, res.Errors)

	thread := res.Data.(map[string]interface{})["thread"].([]interface{})
	require.Len(t, thread, 2)
	assert.Equal(t, true, thread[0].(map[string]interface{})["isMine"])
	assert.Equal(t, false, thread[1].(map[string]interface{})["isMine"])
	msgs.AssertExpectations(t)
}

func TestQuery_ThreadNeedsCounterparty(t *testing.T) {
	res := run(t, &Resolver{Messages: new(MockMessages)}, consumerCtx(), `{ thread { id } }`)
	assert.Equal(t, CodeBadUserInput, errorCode(t, res))
}
