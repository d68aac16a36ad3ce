package cart

import "errors"

var (
	// -- Validation & Input --
	ErrInvalidProduct = errors.New("invalid product")

	// -- Resource State --
	ErrOutOfStock = errors.New("product is out of stock")
	ErrCartEmpty  = errors.New("cart is empty")

	// -- Storage Failures --
	ErrFailedLoadCart = errors.New("failed to load cart")
	ErrFailedSaveCart = errors.New("failed to save cart")
)
