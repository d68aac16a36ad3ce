package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/events"
	"farmlink-be/internal/order"
	"farmlink-be/internal/payment"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ---------- MOCKS ---------- */

type MockCarts struct {
	mock.Mock
}

func (m *MockCarts) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCarts) Clear(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockConsumers struct {
	mock.Mock
}

func (m *MockConsumers) EnsureProfile(ctx context.Context, userID string, role user.Role) (string, bool, error) {
	args := m.Called(ctx, userID, role)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockConsumers) ConsumerID(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockOrderRepo struct {
	mock.Mock
	order.Repository
}

func (m *MockOrderRepo) CreateOrder(ctx context.Context, o *order.Order) (*order.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepo) CreateItems(ctx context.Context, orderID string, items []order.Item) error {
	return m.Called(ctx, orderID, items).Error(0)
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, orderID string, status order.Status) error {
	return m.Called(ctx, orderID, status).Error(0)
}

func (m *MockOrderRepo) GetWithItems(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepo) ListByConsumer(ctx context.Context, consumerID string) ([]order.Order, error) {
	args := m.Called(ctx, consumerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepo) CancelOrphans(ctx context.Context, before time.Time) ([]string, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockPaymentRepo struct {
	mock.Mock
	payment.Repository
}

func (m *MockPaymentRepo) SavePayment(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepo) GetByOrder(ctx context.Context, orderID string) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepo) MarkPaymentStatus(ctx context.Context, orderID string, status payment.Status) error {
	return m.Called(ctx, orderID, status).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Session), args.Error(1)
}

func (m *MockGateway) VerifySignature(payload []byte, header string) error {
	return m.Called(payload, header).Error(0)
}

type recordingPublisher struct {
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, payload interface{}) error {
	if _, err := json.Marshal(payload); err != nil {
		return err
	}
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type fixture struct {
	carts     *MockCarts
	consumers *MockConsumers
	orders    *MockOrderRepo
	payments  *MockPaymentRepo
	gateway   *MockGateway
	events    *recordingPublisher
	svc       *service
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		carts:     new(MockCarts),
		consumers: new(MockConsumers),
		orders:    new(MockOrderRepo),
		payments:  new(MockPaymentRepo),
		gateway:   new(MockGateway),
		events:    &recordingPublisher{},
	}
	f.svc = NewService(Deps{
		Carts:     f.carts,
		Consumers: f.consumers,
		Orders:    f.orders,
		Payments:  f.payments,
		Gateway:   f.gateway,
		Events:    f.events,
		Currency:  "BWP",
		Origin:    "http://localhost:3000/",
	}).(*service)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.carts.AssertExpectations(t)
	f.consumers.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func consumerCtx() context.Context {
	return utils.SetUserContext(context.Background(), "u-1", "ada@example.com", utils.RoleConsumer)
}

func sampleCart() *cart.Cart {
	return cart.New(
		cart.LineItem{ProductID: "p-1", ProductName: "Tomatoes", Quantity: 2, PricePerItem: d("12.50")},
		cart.LineItem{ProductID: "p-2", ProductName: "Eggs", Quantity: 1, PricePerItem: d("20")},
	)
}

var validInput = Input{
	DeliveryAddress: " Plot 12, Gaborone ",
	ContactNumber:   "71234567",
	Notes:           "gate code 4411",
	Origin:          "https://shop.example.com",
}

/* ---------- PLACE ORDER ---------- */

func TestService_PlaceOrder_Success(t *testing.T) {
	ctx := consumerCtx()
	f := newFixture()

	f.carts.On("Get", ctx, "u-1").Return(sampleCart(), nil)
	f.consumers.On("EnsureProfile", ctx, "u-1", user.RoleConsumer).Return("c-1", false, nil)
	f.orders.On("CreateOrder", ctx, mock.MatchedBy(func(o *order.Order) bool {
		// subtotal 45 is below the reduced tier, so the standard fee applies
		return o.ConsumerID == "c-1" &&
			o.Status == order.StatusPending &&
			o.TotalPrice.Equal(d("70")) &&
			o.OrderDate.Equal(fixedNow)
	})).Return(&order.Order{ID: "o-1", ConsumerID: "c-1"}, nil)
	f.orders.On("CreateItems", ctx, "o-1", []order.Item{
		{ProductID: "p-1", Quantity: 2, PricePerItem: d("12.50")},
		{ProductID: "p-2", Quantity: 1, PricePerItem: d("20")},
	}).Return(nil)
	f.gateway.On("CreateSession", ctx, mock.MatchedBy(func(r payment.SessionRequest) bool {
		return r.OrderID == "o-1" &&
			r.Currency == "bwp" &&
			len(r.Items) == 2 &&
			r.DeliveryFee.Equal(d("25")) &&
			r.DeliveryAddress == "Plot 12, Gaborone" &&
			r.CustomerEmail == "ada@example.com" &&
			r.SuccessURL == "https://shop.example.com/payment-success?session_id={CHECKOUT_SESSION_ID}&order_id=o-1" &&
			r.CancelURL == "https://shop.example.com/checkout" &&
			r.Total().Equal(d("70"))
	})).Return(&payment.Session{ID: "cs_1", URL: "https://pay.example/cs_1"}, nil)
	f.payments.On("SavePayment", ctx, mock.MatchedBy(func(p *payment.Payment) bool {
		return p.OrderID == "o-1" &&
			p.TransactionID == "cs_1" &&
			p.Amount.Equal(d("70")) &&
			p.Status == payment.StatusPending &&
			p.PaymentMethod == payment.MethodCard
	})).Return(nil)
	f.carts.On("Clear", ctx, "u-1").Return(nil)

	res, err := f.svc.PlaceOrder(ctx, "u-1", validInput)
	require.NoError(t, err)

	assert.Equal(t, "o-1", res.OrderID)
	assert.Equal(t, "cs_1", res.SessionID)
	assert.Equal(t, "https://pay.example/cs_1", res.RedirectURL)
	assert.True(t, res.Subtotal.Equal(d("45")))
	assert.True(t, res.DeliveryFee.Equal(d("25")))
	assert.True(t, res.Total.Equal(d("70")))
	assert.Equal(t, []string{events.TopicOrderCreated}, f.events.topics)
	f.assertExpectations(t)
}

func TestService_PlaceOrder_FallsBackToConfiguredOrigin(t *testing.T) {
	ctx := consumerCtx()
	f := newFixture()

	in := validInput
	in.Origin = ""

	f.carts.On("Get", ctx, "u-1").Return(sampleCart(), nil)
	f.consumers.On("EnsureProfile", ctx, "u-1", user.RoleConsumer).Return("c-1", true, nil)
	f.orders.On("CreateOrder", ctx, mock.Anything).Return(&order.Order{ID: "o-9"}, nil)
	f.orders.On("CreateItems", ctx, "o-9", mock.Anything).Return(nil)
	f.gateway.On("CreateSession", ctx, mock.MatchedBy(func(r payment.SessionRequest) bool {
		return r.CancelURL == "http://localhost:3000/checkout"
	})).Return(&payment.Session{ID: "cs_9", URL: "https://pay.example/cs_9"}, nil)
	f.payments.On("SavePayment", ctx, mock.Anything).Return(nil)
	f.carts.On("Clear", ctx, "u-1").Return(errors.New("redis down"))

	// a cart that cannot be cleared does not fail a paid-for order
	res, err := f.svc.PlaceOrder(ctx, "u-1", in)
	require.NoError(t, err)
	assert.Equal(t, "o-9", res.OrderID)
	f.assertExpectations(t)
}

func TestService_PlaceOrder_ValidationMakesNoCalls(t *testing.T) {
	ctx := consumerCtx()

	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{"BlankAddress", Input{DeliveryAddress: "   ", ContactNumber: "71234567"}, "deliveryAddress"},
		{"BlankContact", Input{DeliveryAddress: "Plot 12", ContactNumber: ""}, "contactNumber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.svc.PlaceOrder(ctx, "u-1", tt.in)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			f.carts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
			f.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
			f.gateway.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
		})
	}
}

func TestService_PlaceOrder_Preconditions(t *testing.T) {
	t.Run("Unauthenticated", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.PlaceOrder(context.Background(), "", validInput)
		assert.ErrorIs(t, err, utils.ErrUnauthenticated)
	})

	t.Run("FarmerRejected", func(t *testing.T) {
		f := newFixture()
		ctx := utils.SetUserContext(context.Background(), "u-2", "farm@example.com", utils.RoleFarmer)
		_, err := f.svc.PlaceOrder(ctx, "u-2", validInput)
		assert.ErrorIs(t, err, ErrConsumerAccount)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		ctx := consumerCtx()
		f := newFixture()
		f.carts.On("Get", ctx, "u-1").Return(cart.New(), nil)

		_, err := f.svc.PlaceOrder(ctx, "u-1", validInput)
		assert.ErrorIs(t, err, ErrEmptyCart)
		f.consumers.AssertNotCalled(t, "EnsureProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BlankAddressReportedBeforeEmptyCart", func(t *testing.T) {
		ctx := consumerCtx()
		f := newFixture()
		f.carts.On("Get", ctx, "u-1").Return(cart.New(), nil).Maybe()

		_, err := f.svc.PlaceOrder(ctx, "u-1", Input{DeliveryAddress: " ", ContactNumber: "71234567"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.NotErrorIs(t, err, ErrEmptyCart)
		f.carts.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestService_PlaceOrder_StepFailures(t *testing.T) {
	ctx := consumerCtx()
	boom := errors.New("boom")

	t.Run("OrderInsert", func(t *testing.T) {
		f := newFixture()
		f.carts.On("Get", ctx, "u-1").Return(sampleCart(), nil)
		f.consumers.On("EnsureProfile", ctx, "u-1", user.RoleConsumer).Return("c-1", false, nil)
		f.orders.On("CreateOrder", ctx, mock.Anything).Return(nil, boom)

		_, err := f.svc.PlaceOrder(ctx, "u-1", validInput)
		assert.ErrorIs(t, err, ErrCheckoutFailed)
		assert.ErrorIs(t, err, boom)
		f.gateway.AssertNotCalled(t, "CreateSession", mock.Anything, mock.Anything)
		f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	})

	t.Run("PaymentSession", func(t *testing.T) {
		f := newFixture()
		f.carts.On("Get", ctx, "u-1").Return(sampleCart(), nil)
		f.consumers.On("EnsureProfile", ctx, "u-1", user.RoleConsumer).Return("c-1", false, nil)
		f.orders.On("CreateOrder", ctx, mock.Anything).Return(&order.Order{ID: "o-1"}, nil)
		f.orders.On("CreateItems", ctx, "o-1", mock.Anything).Return(nil)
		f.gateway.On("CreateSession", ctx, mock.Anything).Return(nil, boom)

		_, err := f.svc.PlaceOrder(ctx, "u-1", validInput)
		assert.ErrorIs(t, err, ErrCheckoutFailed)
		f.payments.AssertNotCalled(t, "SavePayment", mock.Anything, mock.Anything)
		f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
		assert.Empty(t, f.events.topics)
	})

	t.Run("PaymentRecord", func(t *testing.T) {
		f := newFixture()
		f.carts.On("Get", ctx, "u-1").Return(sampleCart(), nil)
		f.consumers.On("EnsureProfile", ctx, "u-1", user.RoleConsumer).Return("c-1", false, nil)
		f.orders.On("CreateOrder", ctx, mock.Anything).Return(&order.Order{ID: "o-1"}, nil)
		f.orders.On("CreateItems", ctx, "o-1", mock.Anything).Return(nil)
		f.gateway.On("CreateSession", ctx, mock.Anything).Return(&payment.Session{ID: "cs_1", URL: "u"}, nil)
		f.payments.On("SavePayment", ctx, mock.Anything).Return(boom)

		_, err := f.svc.PlaceOrder(ctx, "u-1", validInput)
		assert.ErrorIs(t, err, ErrCheckoutFailed)
		f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	})
}

/* ---------- CONFIRMATION ---------- */

func pendingPayment(sessionID string, status payment.Status) *payment.Payment {
	return &payment.Payment{OrderID: "o-1", TransactionID: sessionID, Status: status}
}

func TestService_ConfirmPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("PendingBecomesConfirmed", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil).Once()
		f.payments.On("GetByOrder", ctx, "o-1").Return(pendingPayment("cs_1", payment.StatusPending), nil)
		f.orders.On("UpdateStatus", ctx, "o-1", order.StatusConfirmed).Return(nil)
		f.payments.On("MarkPaymentStatus", ctx, "o-1", payment.StatusCompleted).Return(nil)
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusConfirmed}, nil).Once()

		o, err := f.svc.ConfirmPayment(ctx, "o-1", "cs_1")
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, o.Status)
		assert.Equal(t, []string{events.TopicOrderConfirmed}, f.events.topics)
		f.assertExpectations(t)
	})

	t.Run("AlreadyConfirmedIsNoop", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusConfirmed}, nil)
		f.payments.On("GetByOrder", ctx, "o-1").Return(pendingPayment("cs_1", payment.StatusCompleted), nil)

		o, err := f.svc.ConfirmPayment(ctx, "o-1", "cs_1")
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, o.Status)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.events.topics)
	})

	t.Run("Cancelled", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusCancelled}, nil)
		f.payments.On("GetByOrder", ctx, "o-1").Return(pendingPayment("cs_1", payment.StatusFailed), nil)

		_, err := f.svc.ConfirmPayment(ctx, "o-1", "cs_1")
		assert.ErrorIs(t, err, ErrOrderCancelled)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MismatchedSessionLeavesOrderPending", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil)
		f.payments.On("GetByOrder", ctx, "o-1").Return(pendingPayment("cs_1", payment.StatusPending), nil)

		_, err := f.svc.ConfirmPayment(ctx, "o-1", "cs_forged")
		assert.ErrorIs(t, err, ErrSessionMismatch)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		f.payments.AssertNotCalled(t, "MarkPaymentStatus", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.events.topics)
	})

	t.Run("BlankSession", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil)

		_, err := f.svc.ConfirmPayment(ctx, "o-1", "  ")
		assert.ErrorIs(t, err, ErrSessionMismatch)
		f.payments.AssertNotCalled(t, "GetByOrder", mock.Anything, mock.Anything)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NoPaymentRecorded", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil)
		f.payments.On("GetByOrder", ctx, "o-1").Return(nil, payment.ErrPaymentNotFound)

		_, err := f.svc.ConfirmPayment(ctx, "o-1", "cs_1")
		assert.ErrorIs(t, err, ErrSessionMismatch)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("PaymentLookupFails", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil)
		f.payments.On("GetByOrder", ctx, "o-1").Return(nil, errors.New("db down"))

		_, err := f.svc.ConfirmPayment(ctx, "o-1", "cs_1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSessionMismatch)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingID", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.ConfirmPayment(ctx, "  ", "cs_1")
		assert.ErrorIs(t, err, ErrMissingOrderID)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "nope").Return(nil, order.ErrOrderNotFound)

		_, err := f.svc.ConfirmPayment(ctx, "nope", "cs_1")
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestService_ConfirmPaid(t *testing.T) {
	ctx := context.Background()

	t.Run("PendingBecomesConfirmed", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil)
		f.orders.On("UpdateStatus", ctx, "o-1", order.StatusConfirmed).Return(nil)
		f.payments.On("MarkPaymentStatus", ctx, "o-1", payment.StatusCompleted).Return(nil)

		require.NoError(t, f.svc.ConfirmPaid(ctx, "o-1"))
		assert.Equal(t, []string{events.TopicOrderConfirmed}, f.events.topics)
		f.payments.AssertNotCalled(t, "GetByOrder", mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("SweptOrderIsRevived", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusCancelled}, nil)
		f.payments.On("GetByOrder", ctx, "o-1").Return(nil, payment.ErrPaymentNotFound)
		f.orders.On("UpdateStatus", ctx, "o-1", order.StatusConfirmed).Return(nil)
		f.payments.On("MarkPaymentStatus", ctx, "o-1", payment.StatusCompleted).Return(nil)

		require.NoError(t, f.svc.ConfirmPaid(ctx, "o-1"))
		assert.Equal(t, []string{events.TopicOrderConfirmed}, f.events.topics)
		f.assertExpectations(t)
	})

	t.Run("FailedPaymentStaysCancelled", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusCancelled}, nil)
		f.payments.On("GetByOrder", ctx, "o-1").Return(pendingPayment("cs_1", payment.StatusFailed), nil)

		err := f.svc.ConfirmPaid(ctx, "o-1")
		assert.ErrorIs(t, err, ErrOrderCancelled)
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		assert.Empty(t, f.events.topics)
	})

	t.Run("MissingID", func(t *testing.T) {
		f := newFixture()
		assert.ErrorIs(t, f.svc.ConfirmPaid(ctx, ""), ErrMissingOrderID)
	})
}

func TestService_MarkPaymentFailed(t *testing.T) {
	ctx := context.Background()

	t.Run("CancelsPendingOrder", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusPending}, nil)
		f.payments.On("MarkPaymentStatus", ctx, "o-1", payment.StatusFailed).Return(nil)
		f.orders.On("UpdateStatus", ctx, "o-1", order.StatusCancelled).Return(nil)

		require.NoError(t, f.svc.MarkPaymentFailed(ctx, "o-1"))
		assert.Equal(t, []string{events.TopicOrderCancelled}, f.events.topics)
		f.assertExpectations(t)
	})

	t.Run("LeavesConfirmedOrder", func(t *testing.T) {
		f := newFixture()
		f.orders.On("GetWithItems", ctx, "o-1").
			Return(&order.Order{ID: "o-1", Status: order.StatusConfirmed}, nil)
		f.payments.On("MarkPaymentStatus", ctx, "o-1", payment.StatusFailed).Return(nil)

		require.NoError(t, f.svc.MarkPaymentFailed(ctx, "o-1"))
		f.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

/* ---------- SWEEP ---------- */

func TestService_SweepOrphans(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cutoff := fixedNow.Add(-2 * time.Hour)
	f.orders.On("CancelOrphans", ctx, cutoff).Return([]string{"o-1", "o-2"}, nil)

	ids, err := f.svc.SweepOrphans(ctx, 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"o-1", "o-2"}, ids)
	assert.Len(t, f.events.topics, 2)
	f.assertExpectations(t)
}

/* ---------- READS ---------- */

func TestService_Order_OwnerOnly(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner", func(t *testing.T) {
		f := newFixture()
		f.consumers.On("ConsumerID", ctx, "u-1").Return("c-1", nil)
		f.orders.On("GetWithItems", ctx, "o-1").Return(&order.Order{ID: "o-1", ConsumerID: "c-1"}, nil)

		o, err := f.svc.Order(ctx, "u-1", "o-1")
		require.NoError(t, err)
		assert.Equal(t, "o-1", o.ID)
	})

	t.Run("OtherConsumer", func(t *testing.T) {
		f := newFixture()
		f.consumers.On("ConsumerID", ctx, "u-2").Return("c-2", nil)
		f.orders.On("GetWithItems", ctx, "o-1").Return(&order.Order{ID: "o-1", ConsumerID: "c-1"}, nil)

		_, err := f.svc.Order(ctx, "u-2", "o-1")
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})

	t.Run("NoConsumerProfile", func(t *testing.T) {
		f := newFixture()
		f.consumers.On("ConsumerID", ctx, "u-3").Return("", user.ErrProfileNotFound)

		_, err := f.svc.Order(ctx, "u-3", "o-1")
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

func TestService_Orders(t *testing.T) {
	ctx := context.Background()

	t.Run("ListsForConsumer", func(t *testing.T) {
		f := newFixture()
		f.consumers.On("ConsumerID", ctx, "u-1").Return("c-1", nil)
		f.orders.On("ListByConsumer", ctx, "c-1").Return([]order.Order{{ID: "o-2"}, {ID: "o-1"}}, nil)

		list, err := f.svc.Orders(ctx, "u-1")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("NoProfileIsEmpty", func(t *testing.T) {
		f := newFixture()
		f.consumers.On("ConsumerID", ctx, "u-1").Return("", user.ErrProfileNotFound)

		list, err := f.svc.Orders(ctx, "u-1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
