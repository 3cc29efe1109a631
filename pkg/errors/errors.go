package errors

import (
	"errors"
)

var (
	ErrNilTransaction       = errors.New("transaction is nil")
	ErrInvalidInput         = errors.New("input is required")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidCurrency      = errors.New("invalid currency format")
	ErrUnsupportedCurrency  = errors.New("unsupported currency")
	ErrInvalidStatus        = errors.New("invalid transaction status")
	ErrDuplicateTransaction = errors.New("duplicate transaction")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// Wrap attaches a user-facing message to a sentinel error while keeping
// errors.Is matching against the sentinel.
func Wrap(sentinel error, message string) error {
	return &wrappedError{sentinel: sentinel, message: message}
}

type wrappedError struct {
	sentinel error
	message  string
}

func (e *wrappedError) Error() string { return e.message }

func (e *wrappedError) Unwrap() error { return e.sentinel }
