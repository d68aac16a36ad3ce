package product

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCategory = "Uncategorized"
	DefaultUnit     = "each"
)

type Product struct {
	ID          string
	FarmerID    string
	Name        string
	Description string
	Price       decimal.Decimal
	StockLevel  int
	ImageURL    *string
	Category    string
	IsOrganic   bool
	Unit        string
	CreatedAt   time.Time

	// Filled by the catalog listing join.
	FarmName   string
	FarmerName string
}

// Normalize applies the defaults for attributes that may be missing in
// storage.
func (p *Product) Normalize() {
	p.Category = strings.TrimSpace(p.Category)
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	p.Unit = strings.TrimSpace(p.Unit)
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}
}

func (p Product) InStock() bool {
	return p.StockLevel > 0
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	StockLevel  int
	Category    string
	Unit        string
	IsOrganic   bool
	ImageURL    *string
}

// ImageUpload is a single product picture as received from a multipart form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
}
