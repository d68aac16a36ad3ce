package checkout

import "github.com/shopspring/decimal"

var (
	freeDeliveryThreshold    = decimal.NewFromInt(100)
	reducedDeliveryThreshold = decimal.NewFromInt(50)

	reducedDeliveryFee  = decimal.NewFromInt(15)
	standardDeliveryFee = decimal.NewFromInt(25)
)

// DeliveryFee is a flat tier on the cart subtotal.
func DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	switch {
	case subtotal.GreaterThanOrEqual(freeDeliveryThreshold):
		return decimal.Zero
	case subtotal.GreaterThanOrEqual(reducedDeliveryThreshold):
		return reducedDeliveryFee
	default:
		return standardDeliveryFee
	}
}
