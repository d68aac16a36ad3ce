package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/events"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/metrics"
	"farmlink-be/internal/order"
	"farmlink-be/internal/payment"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

type Carts interface {
	Get(ctx context.Context, userID string) (*cart.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type Consumers interface {
	EnsureProfile(ctx context.Context, userID string, role user.Role) (string, bool, error)
	ConsumerID(ctx context.Context, userID string) (string, error)
}

type Service interface {
	PlaceOrder(ctx context.Context, userID string, in Input) (*Result, error)
	ConfirmPayment(ctx context.Context, orderID, sessionID string) (*order.Order, error)
	ConfirmPaid(ctx context.Context, orderID string) error
	MarkPaymentFailed(ctx context.Context, orderID string) error
	SweepOrphans(ctx context.Context, olderThan time.Duration) ([]string, error)
	Orders(ctx context.Context, userID string) ([]order.Order, error)
	Order(ctx context.Context, userID, orderID string) (*order.Order, error)
}

type Deps struct {
	Carts     Carts
	Consumers Consumers
	Orders    order.Repository
	Payments  payment.Repository
	Gateway   payment.Gateway
	Events    events.Publisher
	Currency  string
	// Origin is used when the request carries no storefront origin.
	Origin string
}

type service struct {
	carts     Carts
	consumers Consumers
	orders    order.Repository
	payments  payment.Repository
	gateway   payment.Gateway
	events    events.Publisher
	currency  string
	origin    string
	now       func() time.Time
}

func NewService(d Deps) Service {
	currency := strings.ToLower(d.Currency)
	if currency == "" {
		currency = "bwp"
	}
	return &service{
		carts:     d.Carts,
		consumers: d.Consumers,
		orders:    d.Orders,
		payments:  d.Payments,
		gateway:   d.Gateway,
		events:    d.Events,
		currency:  currency,
		origin:    strings.TrimRight(d.Origin, "/"),
		now:       time.Now,
	}
}

func validate(in Input) error {
	if strings.TrimSpace(in.DeliveryAddress) == "" {
		return &ValidationError{Field: "deliveryAddress", Message: "is required"}
	}
	if strings.TrimSpace(in.ContactNumber) == "" {
		return &ValidationError{Field: "contactNumber", Message: "is required"}
	}
	return nil
}

func successURL(origin, orderID string) string {
	return origin + "/payment-success?session_id={CHECKOUT_SESSION_ID}&order_id=" + url.QueryEscape(orderID)
}

func (s *service) fail(log *zap.Logger, step string, err error) error {
	metrics.CheckoutTotal.WithLabelValues(step).Inc()
	log.Error("checkout step failed", zap.String("step", step), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", ErrCheckoutFailed, step, err)
}

// PlaceOrder turns the caller's cart into a pending order and returns the
// hosted payment page to redirect to. Rows written before a failing step are
// kept; SweepOrphans cancels orders that never got a payment session.
func (s *service) PlaceOrder(ctx context.Context, userID string, in Input) (*Result, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
	)

	/* ---------- PRECONDITIONS ---------- */

	if userID == "" {
		return nil, utils.ErrUnauthenticated
	}
	if utils.GetUserRoleFromContext(ctx) == utils.RoleFarmer {
		return nil, ErrConsumerAccount
	}
	if err := validate(in); err != nil {
		metrics.CheckoutTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, s.fail(log, "cart", err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	/* ---------- ORDER ---------- */

	consumerID, _, err := s.consumers.EnsureProfile(ctx, userID, user.RoleConsumer)
	if err != nil {
		return nil, s.fail(log, "consumer", err)
	}

	subtotal := c.TotalPrice()
	fee := DeliveryFee(subtotal)
	total := subtotal.Add(fee)

	o, err := s.orders.CreateOrder(ctx, &order.Order{
		ConsumerID: consumerID,
		OrderDate:  s.now().UTC(),
		TotalPrice: total,
		Status:     order.StatusPending,
	})
	if err != nil {
		return nil, s.fail(log, "order", err)
	}
	log = log.With(zap.String("order_id", o.ID))

	items := make([]order.Item, 0, len(c.Items))
	lines := make([]payment.LineItem, 0, len(c.Items))
	for _, li := range c.Items {
		items = append(items, order.Item{
			ProductID:    li.ProductID,
			Quantity:     li.Quantity,
			PricePerItem: li.PricePerItem,
		})
		lines = append(lines, payment.LineItem{
			Name:     li.ProductName,
			Quantity: li.Quantity,
			Price:    li.PricePerItem,
		})
	}
	if err := s.orders.CreateItems(ctx, o.ID, items); err != nil {
		return nil, s.fail(log, "items", err)
	}

	/* ---------- PAYMENT ---------- */

	origin := strings.TrimRight(in.Origin, "/")
	if origin == "" {
		origin = s.origin
	}
	sess, err := s.gateway.CreateSession(ctx, payment.SessionRequest{
		OrderID:         o.ID,
		Currency:        s.currency,
		Items:           lines,
		DeliveryFee:     fee,
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		ContactNumber:   strings.TrimSpace(in.ContactNumber),
		Notes:           strings.TrimSpace(in.Notes),
		CustomerEmail:   utils.GetUserEmailFromContext(ctx),
		SuccessURL:      successURL(origin, o.ID),
		CancelURL:       origin + "/checkout",
	})
	if err != nil {
		return nil, s.fail(log, "payment", err)
	}

	err = s.payments.SavePayment(ctx, &payment.Payment{
		OrderID:       o.ID,
		TransactionID: sess.ID,
		Amount:        total,
		PaymentMethod: payment.MethodCard,
		Status:        payment.StatusPending,
	})
	if err != nil {
		return nil, s.fail(log, "record", err)
	}

	/* ---------- CLEANUP ---------- */

	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Warn("failed to clear cart after checkout", zap.Error(err))
	}

	metrics.CheckoutTotal.WithLabelValues("success").Inc()
	events.Emit(ctx, s.events, events.TopicOrderCreated, o.ID, events.OrderCreated{
		OrderID:    o.ID,
		ConsumerID: consumerID,
		Total:      total.StringFixed(2),
		ItemCount:  c.TotalItems(),
	})

	log.Info("order placed",
		zap.String("session_id", sess.ID),
		zap.String("total", total.StringFixed(2)),
	)

	return &Result{
		OrderID:     o.ID,
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       total,
	}, nil
}

// ConfirmPayment is called when the shopper returns from the payment page.
// The session id from the redirect must be the one recorded for the order.
// It confirms the order and returns it with its items.
func (s *service) ConfirmPayment(ctx context.Context, orderID, sessionID string) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmPayment"),
		zap.String("order_id", orderID),
	)

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrMissingOrderID
	}

	o, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.verifySession(ctx, orderID, sessionID); err != nil {
		log.Warn("payment session rejected", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	changed, err := s.confirm(ctx, log, o, false)
	if err != nil {
		return nil, err
	}
	if !changed {
		return o, nil
	}
	return s.orders.GetWithItems(ctx, orderID)
}

func (s *service) verifySession(ctx context.Context, orderID, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrSessionMismatch
	}
	p, err := s.payments.GetByOrder(ctx, orderID)
	if errors.Is(err, payment.ErrPaymentNotFound) {
		return ErrSessionMismatch
	}
	if err != nil {
		return err
	}
	if p.TransactionID != sessionID {
		return ErrSessionMismatch
	}
	return nil
}

// ConfirmPaid applies a verified provider event. Orders that are already
// confirmed or completed are left alone.
func (s *service) ConfirmPaid(ctx context.Context, orderID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConfirmPaid"),
		zap.String("order_id", orderID),
	)

	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrMissingOrderID
	}

	o, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return err
	}
	_, err = s.confirm(ctx, log, o, true)
	return err
}

// confirm moves o to confirmed and reports whether it changed anything.
// Cancelled orders stay cancelled, except that a provider event may revive
// an order the orphan sweep cancelled, i.e. one without a payment row.
func (s *service) confirm(ctx context.Context, log *zap.Logger, o *order.Order, fromProvider bool) (bool, error) {
	switch o.Status {
	case order.StatusConfirmed, order.StatusCompleted:
		log.Debug("order already confirmed")
		return false, nil
	case order.StatusCancelled:
		if !fromProvider || !s.sweptOrphan(ctx, o.ID) {
			return false, ErrOrderCancelled
		}
		log.Warn("paid order was cancelled by the orphan sweep, reviving")
	}

	if err := s.orders.UpdateStatus(ctx, o.ID, order.StatusConfirmed); err != nil {
		log.Error("failed to confirm order", zap.Error(err))
		return false, err
	}
	if err := s.payments.MarkPaymentStatus(ctx, o.ID, payment.StatusCompleted); err != nil {
		log.Warn("failed to mark payment completed", zap.Error(err))
	}

	metrics.OrdersConfirmed.Inc()
	events.Emit(ctx, s.events, events.TopicOrderConfirmed, o.ID, events.OrderStatusChanged{
		OrderID: o.ID,
		Status:  string(order.StatusConfirmed),
	})

	log.Info("order confirmed")
	return true, nil
}

func (s *service) sweptOrphan(ctx context.Context, orderID string) bool {
	_, err := s.payments.GetByOrder(ctx, orderID)
	return errors.Is(err, payment.ErrPaymentNotFound)
}

func (s *service) MarkPaymentFailed(ctx context.Context, orderID string) error {
	if orderID == "" {
		return ErrMissingOrderID
	}

	o, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.payments.MarkPaymentStatus(ctx, orderID, payment.StatusFailed); err != nil {
		return err
	}
	if o.Status != order.StatusPending {
		return nil
	}
	if err := s.orders.UpdateStatus(ctx, orderID, order.StatusCancelled); err != nil {
		return err
	}

	events.Emit(ctx, s.events, events.TopicOrderCancelled, orderID, events.OrderStatusChanged{
		OrderID: orderID,
		Status:  string(order.StatusCancelled),
	})
	return nil
}

// SweepOrphans cancels pending orders older than olderThan that never got a
// payment session.
func (s *service) SweepOrphans(ctx context.Context, olderThan time.Duration) ([]string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SweepOrphans"),
	)

	cutoff := s.now().UTC().Add(-olderThan)
	ids, err := s.orders.CancelOrphans(ctx, cutoff)
	if err != nil {
		log.Error("orphan sweep failed", zap.Error(err))
		return nil, err
	}

	metrics.OrphanOrdersCancelled.Add(float64(len(ids)))
	for _, id := range ids {
		events.Emit(ctx, s.events, events.TopicOrderCancelled, id, events.OrderStatusChanged{
			OrderID: id,
			Status:  string(order.StatusCancelled),
		})
	}

	if len(ids) > 0 {
		log.Info("cancelled orphan orders", zap.Int("count", len(ids)), zap.Time("cutoff", cutoff))
	}
	return ids, nil
}

func (s *service) Orders(ctx context.Context, userID string) ([]order.Order, error) {
	consumerID, err := s.consumers.ConsumerID(ctx, userID)
	if errors.Is(err, user.ErrProfileNotFound) {
		return []order.Order{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.orders.ListByConsumer(ctx, consumerID)
}

// Order returns the order only to the consumer who placed it.
func (s *service) Order(ctx context.Context, userID, orderID string) (*order.Order, error) {
	if orderID == "" {
		return nil, ErrMissingOrderID
	}

	consumerID, err := s.consumers.ConsumerID(ctx, userID)
	if errors.Is(err, user.ErrProfileNotFound) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	o, err := s.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ConsumerID != consumerID {
		return nil, order.ErrOrderNotFound
	}
	return o, nil
}
