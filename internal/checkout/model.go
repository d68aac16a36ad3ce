package checkout

import "github.com/shopspring/decimal"

type Input struct {
	DeliveryAddress string
	ContactNumber   string
	Notes           string
	// Origin is the storefront base URL the payment page returns to.
	Origin string
}

type Result struct {
	OrderID     string
	SessionID   string
	RedirectURL string
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}
