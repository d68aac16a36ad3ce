// internal/payment/payment.go
package payment

import (
	"context"
)

// Gateway opens hosted payment pages and authenticates the provider's
// callbacks.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	VerifySignature(payload []byte, header string) error
}
