package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"

	"farmlink-be/internal/checkout"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/order"
	"farmlink-be/internal/payment"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

const (
	maxPayloadBytes = 64 << 10
	signatureHeader = "Stripe-Signature"
)

// OrderConfirmer marks an order as paid. It must tolerate repeated calls for
// the same order.
type OrderConfirmer interface {
	ConfirmPaid(ctx context.Context, orderID string) error
	MarkPaymentFailed(ctx context.Context, orderID string) error
}

type Handler struct {
	Orders  OrderConfirmer
	Gateway payment.Gateway
	Repo    payment.Repository
}

func NewWebhookHandler(orders OrderConfirmer, gateway payment.Gateway, repo payment.Repository) *Handler {
	return &Handler{
		Orders:  orders,
		Gateway: gateway,
		Repo:    repo,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(zap.String("handler", "payment_webhook"))

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		utils.WriteJSONError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if err := h.Gateway.VerifySignature(body, r.Header.Get(signatureHeader)); err != nil {
		log.Warn("webhook signature rejected", zap.Error(err))
		utils.WriteJSONError(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	ev, err := payment.ParseEvent(body)
	if err != nil {
		log.Warn("invalid webhook payload", zap.Error(err))
		utils.WriteJSONError(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	obj := ev.Data.Object
	log = log.With(
		zap.String("event_id", ev.ID),
		zap.String("event_type", ev.Type),
		zap.String("session_id", obj.ID),
	)

	webhookID, duplicate, err := h.Repo.SaveWebhook(ctx, payment.ProviderStripe, ev.ID, ev.Type, obj.ID, body, true)
	if err != nil {
		log.Error("failed to record webhook", zap.Error(err))
		utils.WriteJSONError(w, "failed to record webhook", http.StatusInternalServerError)
		return
	}
	if duplicate {
		log.Info("duplicate webhook ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	orderID := obj.OrderID()
	if orderID == "" {
		log.Warn("webhook carries no order id")
		_ = h.Repo.MarkWebhookFailed(ctx, webhookID, "missing order id")
		w.WriteHeader(http.StatusOK)
		return
	}

	switch ev.Type {
	case payment.EventCheckoutCompleted:
		err = h.Orders.ConfirmPaid(ctx, orderID)
	case payment.EventCheckoutExpired:
		err = h.Orders.MarkPaymentFailed(ctx, orderID)
	default:
		log.Debug("webhook type ignored")
		_ = h.Repo.MarkWebhookProcessed(ctx, webhookID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err != nil {
		log.Error("failed to apply webhook", zap.String("order_id", orderID), zap.Error(err))
		if markErr := h.Repo.MarkWebhookFailed(ctx, webhookID, err.Error()); markErr != nil {
			log.Error("failed to mark webhook failed", zap.Error(markErr))
		}
		// redelivery cannot fix a missing or cancelled order
		if errors.Is(err, order.ErrOrderNotFound) || errors.Is(err, checkout.ErrOrderCancelled) {
			w.WriteHeader(http.StatusOK)
			return
		}
		utils.WriteJSONError(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	if err := h.Repo.MarkWebhookProcessed(ctx, webhookID); err != nil {
		log.Warn("failed to mark webhook processed", zap.Error(err))
	}

	log.Info("webhook applied", zap.String("order_id", orderID))
	w.WriteHeader(http.StatusOK)
}
