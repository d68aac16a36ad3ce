package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart       = errors.New("your cart is empty")
	ErrCheckoutFailed  = errors.New("failed to place order, please try again")
	ErrMissingOrderID  = errors.New("missing order id")
	ErrOrderCancelled  = errors.New("order was cancelled")
	ErrConsumerAccount = errors.New("only consumer accounts can place orders")
	ErrSessionMismatch = errors.New("payment session does not match this order")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}
