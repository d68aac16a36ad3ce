package httpapi

import (
	"context"
	"errors"
	"net/http"

	"farmlink-be/internal/checkout"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/order"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, orderID, sessionID string) (*order.Order, error)
}

type orderSummary struct {
	OrderID    string        `json:"orderId"`
	ShortID    string        `json:"shortId"`
	SessionID  string        `json:"sessionId,omitempty"`
	Status     string        `json:"status"`
	TotalPrice string        `json:"totalPrice"`
	Items      []itemSummary `json:"items"`
}

type itemSummary struct {
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	PricePerItem string `json:"pricePerItem"`
	Subtotal     string `json:"subtotal"`
}

// PaymentSuccessHandler confirms the order the shopper was redirected back
// for and returns a summary to render. The session_id must match the payment
// session created for that order.
type PaymentSuccessHandler struct {
	Orders PaymentConfirmer
}

func NewPaymentSuccessHandler(orders PaymentConfirmer) *PaymentSuccessHandler {
	return &PaymentSuccessHandler{Orders: orders}
}

func (h *PaymentSuccessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := r.URL.Query().Get("order_id")
	sessionID := r.URL.Query().Get("session_id")

	log := logger.FromCtx(ctx).With(
		zap.String("handler", "payment-success"),
		zap.String("order_id", orderID),
		zap.String("session_id", sessionID),
	)

	if orderID == "" {
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":    "Order ID not found",
			"redirect": "/",
		})
		return
	}

	o, err := h.Orders.ConfirmPayment(ctx, orderID, sessionID)
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrSessionMismatch):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]string{
			"error":    "Payment session does not match this order",
			"redirect": "/",
		})
		return
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONError(w, "order not found", http.StatusNotFound)
		return
	case errors.Is(err, checkout.ErrOrderCancelled):
		utils.WriteJSONError(w, err.Error(), http.StatusConflict)
		return
	default:
		log.Error("failed to confirm order", zap.Error(err))
		utils.WriteJSONError(w, "Failed to confirm order status", http.StatusInternalServerError)
		return
	}

	summary := orderSummary{
		OrderID:    o.ID,
		ShortID:    utils.ShortID(o.ID),
		SessionID:  sessionID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice.StringFixed(2),
		Items:      make([]itemSummary, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		summary.Items = append(summary.Items, itemSummary{
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			PricePerItem: it.PricePerItem.StringFixed(2),
			Subtotal:     it.Subtotal().StringFixed(2),
		})
	}

	log.Info("payment confirmed by redirect")
	utils.WriteJSON(w, http.StatusOK, summary)
}
