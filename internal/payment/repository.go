package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"farmlink-be/internal/logger"

	"go.uber.org/zap"
)

const ProviderStripe = "stripe"

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	MarkPaymentStatus(ctx context.Context, orderID string, status Status) error
	GetByOrder(ctx context.Context, orderID string) (*Payment, error)

	SaveWebhook(
		ctx context.Context,
		provider string,
		eventID string,
		eventType string,
		externalID string,
		payload json.RawMessage,
		signatureValid bool,
	) (webhookID int64, isDuplicate bool, err error)
	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	if p.Status == "" {
		p.Status = StatusPending
	}
	if p.PaymentMethod == "" {
		p.PaymentMethod = MethodCard
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO payments (order_id, transaction_id, amount, payment_method, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		p.OrderID, p.TransactionID, p.Amount, p.PaymentMethod, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert payment",
			zap.String("order_id", p.OrderID),
			zap.Error(err),
		)
	}
	return err
}

// MarkPaymentStatus updates every payment row of the order. Orders without a
// payment row are not an error.
func (r *repository) MarkPaymentStatus(ctx context.Context, orderID string, status Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $1 WHERE order_id = $2 AND status <> $1
	`, status, orderID)
	return err
}

func (r *repository) GetByOrder(ctx context.Context, orderID string) (*Payment, error) {
	var p Payment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, transaction_id, amount, payment_method, status, created_at
		FROM payments WHERE order_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, orderID).Scan(&p.ID, &p.OrderID, &p.TransactionID, &p.Amount, &p.PaymentMethod, &p.Status, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveWebhook records an incoming event. An event seen before is reported as
// a duplicate only once it was processed, so a delivery that failed earlier
// is handed out again under its original id.
func (r *repository) SaveWebhook(
	ctx context.Context,
	provider string,
	eventID string,
	eventType string,
	externalID string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	const q = `
	INSERT INTO payment_webhooks (
		provider,
		event_id,
		event_type,
		external_id,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (provider, event_id)
	DO UPDATE SET status = 'received', failure_reason = NULL
	WHERE payment_webhooks.status <> 'processed'
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		q,
		provider,
		eventID,
		eventType,
		externalID,
		signatureValid,
		[]byte(payload),
	).Scan(&id)

	if err != nil {
		// already processed; redeliveries of failed events come back above
		if errors.Is(err, sql.ErrNoRows) {
			return 0, true, nil
		}
		return 0, false, err
	}

	return id, false, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	const q = `
	UPDATE payment_webhooks
	SET status = 'processed'
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	const q = `
	UPDATE payment_webhooks
	SET status = 'failed', failure_reason = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID, reason)
	return err
}
