package message

import "errors"

var (
	ErrEmptyContent     = errors.New("message content is required")
	ErrSelfMessage      = errors.New("cannot send a message to yourself")
	ErrMissingRecipient = errors.New("recipient is required")
)
