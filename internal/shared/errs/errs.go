package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so callers can branch on it and the HTTP layer
// can map it to a status code without string matching.
type Kind string

const (
	// Booking engine failures (user-triggerable, abort the unit of work cleanly)
	KindEventNotBookable      Kind = "EVENT_NOT_BOOKABLE"
	KindInsufficientInventory Kind = "INSUFFICIENT_INVENTORY"
	KindInsufficientSeats     Kind = "INSUFFICIENT_SEATS"
	KindPointsExceedAmount    Kind = "POINTS_EXCEED_AMOUNT"
	KindInsufficientPoints    Kind = "INSUFFICIENT_POINTS"
	KindVoucherExhausted      Kind = "VOUCHER_EXHAUSTED"
	KindCouponAlreadyUsed     Kind = "COUPON_ALREADY_USED"
	KindBookingNotFound       Kind = "BOOKING_NOT_FOUND"
	KindBookingExpired        Kind = "BOOKING_EXPIRED"

	// InvariantViolation indicates corrupted ledger bookkeeping. It is never
	// retried; it halts processing of the affected booking and must be alerted on.
	KindInvariantViolation Kind = "INVARIANT_VIOLATION"

	// Ambient failures for the HTTP surface
	KindValidation   Kind = "VALIDATION"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL"
)

// Error is the typed error carried across service boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind: errs.Is(err, errs.New(KindBookingExpired, "")).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from any error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindPointsExceedAmount:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindBookingNotFound, KindNotFound:
		return http.StatusNotFound
	case KindEventNotBookable, KindInsufficientInventory, KindInsufficientSeats,
		KindInsufficientPoints, KindVoucherExhausted, KindCouponAlreadyUsed,
		KindBookingExpired, KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
