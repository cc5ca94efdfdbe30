// apperr/apperr.go - Closed error taxonomy for the progression/rewards core.
// Services return these; handlers translate kinds to HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindAlreadyClaimed
	KindValidation
	KindInsufficientBalance
	KindOutOfStock
	KindTierTooLow
	KindUnauthorized
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindAlreadyClaimed:
		return "already_claimed"
	case KindValidation:
		return "validation_error"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindOutOfStock:
		return "out_of_stock"
	case KindTierTooLow:
		return "tier_too_low"
	case KindUnauthorized:
		return "unauthorized"
	case KindInternal:
		return "internal"
	}
	return "unknown"
}

// Error carries a kind and a user-facing message. All kinds except
// KindInternal are recoverable at the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, format, args...)
}

func InvalidState(format string, args ...interface{}) *Error {
	return New(KindInvalidState, format, args...)
}

func AlreadyClaimed(format string, args ...interface{}) *Error {
	return New(KindAlreadyClaimed, format, args...)
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, format, args...)
}

func InsufficientBalance(format string, args ...interface{}) *Error {
	return New(KindInsufficientBalance, format, args...)
}

func OutOfStock(format string, args ...interface{}) *Error {
	return New(KindOutOfStock, format, args...)
}

func TierTooLow(format string, args ...interface{}) *Error {
	return New(KindTierTooLow, format, args...)
}

func Unauthorized(format string, args ...interface{}) *Error {
	return New(KindUnauthorized, format, args...)
}

// Internal wraps a storage or infrastructure fault.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the kind from any error, KindUnknown if it is not ours.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
