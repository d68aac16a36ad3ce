package product

import (
	"context"
	"database/sql"
	"errors"

	"farmlink-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	ListInStock(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]Product, error)
	Create(ctx context.Context, p *Product) (*Product, error)
	BulkCreate(ctx context.Context, products []Product) ([]Product, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const pgForeignKeyViolation = "23503"

const listingSelect = `
	SELECT p.id, p.farmer_id, p.name, p.description, p.price, p.stock_level,
		p.image_url, p.category, p.is_organic, p.unit, p.created_at,
		COALESCE(f.farm_name, ''), COALESCE(u.username, '')
	FROM products p
	LEFT JOIN farmers f ON f.id = p.farmer_id
	LEFT JOIN users u ON u.id = f.user_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row scanner) (*Product, error) {
	var (
		p         Product
		category  sql.NullString
		unit      sql.NullString
		isOrganic sql.NullBool
	)
	err := row.Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Price, &p.StockLevel,
		&p.ImageURL, &category, &isOrganic, &unit, &p.CreatedAt,
		&p.FarmName, &p.FarmerName,
	)
	if err != nil {
		return nil, err
	}
	p.Category = category.String
	p.Unit = unit.String
	p.IsOrganic = isOrganic.Valid && isOrganic.Bool
	p.Normalize()
	return &p, nil
}

func collect(rows *sql.Rows) ([]Product, error) {
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// ListInStock returns every product with stock, newest first, with the farm
// and owner names resolved in the same query.
func (r *repository) ListInStock(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listingSelect+`
	WHERE p.stock_level > 0
	ORDER BY p.created_at DESC`)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to list products", zap.Error(err))
		return nil, err
	}
	return collect(rows)
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, listingSelect+`
	WHERE p.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	return p, err
}

func (r *repository) ListByFarmer(ctx context.Context, farmerID string) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, listingSelect+`
	WHERE p.farmer_id = $1
	ORDER BY p.created_at DESC`, farmerID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

const insertProduct = `
	INSERT INTO products (farmer_id, name, description, price, stock_level, image_url, category, is_organic, unit)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created_at`

func (r *repository) Create(ctx context.Context, p *Product) (*Product, error) {
	err := r.db.QueryRowContext(ctx, insertProduct,
		p.FarmerID, p.Name, p.Description, p.Price, p.StockLevel,
		p.ImageURL, p.Category, p.IsOrganic, p.Unit,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to insert product",
			zap.String("farmer_id", p.FarmerID),
			zap.Error(err),
		)
		return nil, err
	}
	return p, nil
}

// BulkCreate inserts all products or none.
func (r *repository) BulkCreate(ctx context.Context, products []Product) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "BulkCreate"),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertProduct)
	if err != nil {
		log.Error("failed to prepare insert", zap.Error(err))
		return nil, err
	}
	defer stmt.Close()

	out := make([]Product, 0, len(products))
	for i := range products {
		p := products[i]
		err := stmt.QueryRowContext(ctx,
			p.FarmerID, p.Name, p.Description, p.Price, p.StockLevel,
			p.ImageURL, p.Category, p.IsOrganic, p.Unit,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			log.Error("failed to insert product", zap.Int("index", i), zap.Error(err))
			return nil, err
		}
		out = append(out, p)
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", zap.Error(err))
		return nil, err
	}

	log.Info("products created", zap.Int("count", len(out)))
	return out, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
			return ErrProductInUse
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProductNotFound
	}
	return nil
}
