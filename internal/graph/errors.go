package graph

import (
	"context"
	"errors"

	"farmlink-be/internal/cart"
	"farmlink-be/internal/checkout"
	"farmlink-be/internal/logger"
	"farmlink-be/internal/message"
	"farmlink-be/internal/order"
	"farmlink-be/internal/product"
	"farmlink-be/internal/user"
	"farmlink-be/internal/utils"

	"go.uber.org/zap"
)

// Error codes returned in the GraphQL "extensions.code" field.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeNotFound        = "NOT_FOUND"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

const internalMessage = "internal server error"

// Error is a client-safe resolver error carrying an extension code.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

var (
	unauthenticatedErrs = []error{
		utils.ErrUnauthenticated,
		user.ErrInvalidCredentials,
		user.ErrTokenRevoked,
	}
	forbiddenErrs = []error{
		product.ErrForbidden,
		checkout.ErrConsumerAccount,
		errFarmerOnly,
	}
	notFoundErrs = []error{
		product.ErrProductNotFound,
		order.ErrOrderNotFound,
		user.ErrUserNotFound,
		user.ErrProfileNotFound,
	}
	badInputErrs = []error{
		user.ErrEmailExists,
		user.ErrInvalidEmail,
		user.ErrWeakPassword,
		user.ErrMissingUsername,
		user.ErrInvalidRole,
		product.ErrNoProducts,
		product.ErrProductInUse,
		product.ErrInvalidImageType,
		product.ErrImageTooLarge,
		cart.ErrInvalidProduct,
		cart.ErrOutOfStock,
		checkout.ErrEmptyCart,
		checkout.ErrMissingOrderID,
		checkout.ErrOrderCancelled,
		checkout.ErrSessionMismatch,
		message.ErrEmptyContent,
		message.ErrSelfMessage,
		message.ErrMissingRecipient,
		errMissingCounterparty,
	}
	// remote failures with a message that is safe to show as-is
	surfacedErrs = []error{
		checkout.ErrCheckoutFailed,
		cart.ErrFailedLoadCart,
		cart.ErrFailedSaveCart,
		product.ErrStorageDisabled,
	}
)

var (
	errFarmerOnly          = errors.New("only farmer accounts can manage products")
	errMissingCounterparty = errors.New("counterpartyId or farmerId is required")
)

func matchAny(err error, targets []error) (error, bool) {
	for _, t := range targets {
		if errors.Is(err, t) {
			return t, true
		}
	}
	return nil, false
}

// toGQLError maps a service error onto the client-facing taxonomy. Backend
// error text never leaves this function unless it is a known sentinel.
func toGQLError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr
	}

	if _, ok := matchAny(err, unauthenticatedErrs); ok {
		return &Error{Message: err.Error(), Code: CodeUnauthenticated}
	}
	if _, ok := matchAny(err, forbiddenErrs); ok {
		return &Error{Message: err.Error(), Code: CodeForbidden}
	}
	if _, ok := matchAny(err, notFoundErrs); ok {
		return &Error{Message: err.Error(), Code: CodeNotFound}
	}

	var checkoutErr *checkout.ValidationError
	var productErr *product.ValidationError
	var productErrs product.ValidationErrors
	if errors.As(err, &checkoutErr) || errors.As(err, &productErr) || errors.As(err, &productErrs) {
		return &Error{Message: err.Error(), Code: CodeBadUserInput}
	}
	if _, ok := matchAny(err, badInputErrs); ok {
		return &Error{Message: err.Error(), Code: CodeBadUserInput}
	}

	log := logger.FromCtx(ctx)
	if sentinel, ok := matchAny(err, surfacedErrs); ok {
		log.Error("resolver failed", zap.Error(err))
		return &Error{Message: sentinel.Error(), Code: CodeInternal}
	}

	log.Error("unexpected resolver error", zap.Error(err))
	return &Error{Message: internalMessage, Code: CodeInternal}
}
