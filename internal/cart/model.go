package cart

import (
	"farmlink-be/internal/product"

	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart. PricePerItem is the price seen when
// the product was first added and is never refreshed.
type LineItem struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductImage *string         `json:"productImage,omitempty"`
	Quantity     int             `json:"quantity"`
	PricePerItem decimal.Decimal `json:"pricePerItem"`
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.PricePerItem.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart keeps line items in insertion order.
type Cart struct {
	Items []LineItem
}

func New(items ...LineItem) *Cart {
	return &Cart{Items: items}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) Add(p product.Product, quantity int) {
	if quantity <= 0 {
		return
	}
	if i := c.indexOf(p.ID); i >= 0 {
		c.SetQuantity(p.ID, c.Items[i].Quantity+quantity)
		return
	}
	c.Items = append(c.Items, LineItem{
		ProductID:    p.ID,
		ProductName:  p.Name,
		ProductImage: p.ImageURL,
		Quantity:     quantity,
		PricePerItem: p.Price,
	})
}

// SetQuantity replaces the quantity of a line; zero or less removes it.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity = quantity
	}
}

func (c *Cart) Remove(productID string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, li := range c.Items {
		n += li.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, li := range c.Items {
		total = total.Add(li.Subtotal())
	}
	return total
}
