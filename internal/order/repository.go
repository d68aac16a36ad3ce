package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"farmlink-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *Order) (*Order, error)
	CreateItems(ctx context.Context, orderID string, items []Item) error
	UpdateStatus(ctx context.Context, orderID string, status Status) error
	GetWithItems(ctx context.Context, orderID string) (*Order, error)
	ListByConsumer(ctx context.Context, consumerID string) ([]Order, error)
	ListStalePending(ctx context.Context, before time.Time) ([]string, error)
	CancelOrphans(ctx context.Context, before time.Time) ([]string, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) (*Order, error) {
	if o.Status == "" {
		o.Status = StatusPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO orders (consumer_id, order_date, total_price, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		o.ConsumerID, o.OrderDate, o.TotalPrice, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert order",
			zap.String("consumer_id", o.ConsumerID),
			zap.Error(err),
		)
		return nil, err
	}
	return o, nil
}

// CreateItems inserts every line of an order in one transaction.
func (r *repository) CreateItems(ctx context.Context, orderID string, items []Item) error {
	if len(items) == 0 {
		return ErrNoItems
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateItems"),
		zap.String("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_id, product_id, quantity, price_per_item)
		VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, orderID, it.ProductID, it.Quantity, it.PricePerItem); err != nil {
			log.Error("failed to insert order item", zap.String("product_id", it.ProductID), zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1 WHERE id = $2`, status, orderID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) GetWithItems(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, consumer_id, order_date, total_price, status, created_at
		FROM orders WHERE id = $1`, orderID,
	).Scan(&o.ID, &o.ConsumerID, &o.OrderDate, &o.TotalPrice, &o.Status, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.product_id, oi.quantity, oi.price_per_item, p.name, p.price
		FROM order_items oi
		JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		it := Item{OrderID: o.ID}
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.PricePerItem, &it.ProductName, &it.ProductPrice); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}

	return &o, rows.Err()
}

func (r *repository) ListByConsumer(ctx context.Context, consumerID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, consumer_id, order_date, total_price, status, created_at
		FROM orders
		WHERE consumer_id = $1
		ORDER BY order_date DESC`, consumerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.ConsumerID, &o.OrderDate, &o.TotalPrice, &o.Status, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

const orphanPredicate = `
	status = 'pending'
	AND order_date < $1
	AND NOT EXISTS (SELECT 1 FROM payments pay WHERE pay.order_id = orders.id)`

// ListStalePending returns pending orders placed before the cutoff that never
// got a payment session.
func (r *repository) ListStalePending(ctx context.Context, before time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM orders WHERE`+orphanPredicate+`
	ORDER BY order_date`, before)
	if err != nil {
		return nil, err
	}
	return scanIDs(rows)
}

// CancelOrphans cancels the orders ListStalePending would return.
func (r *repository) CancelOrphans(ctx context.Context, before time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `UPDATE orders SET status = 'cancelled' WHERE`+orphanPredicate+`
	RETURNING id`, before)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to cancel orphan orders", zap.Error(err))
		return nil, err
	}
	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
