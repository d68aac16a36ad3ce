package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID         string
	ConsumerID string
	OrderDate  time.Time
	TotalPrice decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	Items      []Item
}

type Item struct {
	ID           string
	OrderID      string
	ProductID    string
	Quantity     int
	PricePerItem decimal.Decimal
	ProductName  string
	ProductPrice decimal.Decimal
}

func (i Item) Subtotal() decimal.Decimal {
	return i.PricePerItem.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums quantity times price-per-item over the loaded items.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
