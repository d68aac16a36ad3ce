package product

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrForbidden        = errors.New("you can only manage your own products")
	ErrProductInUse     = errors.New("product is part of existing orders and cannot be deleted")
	ErrNoProducts       = errors.New("at least one product is required")
	ErrInvalidImageType = errors.New("only image files are allowed")
	ErrImageTooLarge    = errors.New("image must be 5MB or smaller")
	ErrStorageDisabled  = errors.New("image storage is not configured")
)

// ValidationError reports a rejected product field. Index is the position in
// a bulk submission, or -1 for a single product.
type ValidationError struct {
	Index   int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("product %d: %s: %s", e.Index+1, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every rejected field of a bulk submission.
type ValidationErrors []*ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 0 {
		return "validation failed"
	}
	if len(es) == 1 {
		return es[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", es[0].Error(), len(es)-1)
}
