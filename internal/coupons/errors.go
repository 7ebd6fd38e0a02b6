package coupons

import "errors"

// Kind is a stable machine-readable error identifier surfaced to API callers.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindReservationNotFound Kind = "reservation_not_found"
	KindPaymentNotCompleted Kind = "payment_not_completed"
	KindNoProducts          Kind = "no_products"
	KindCouponNotFound      Kind = "coupon_not_found"
	KindPartnerMismatch     Kind = "partner_mismatch"
	KindCouponAlreadyUsed   Kind = "coupon_already_used"
	KindCouponCancelled     Kind = "coupon_cancelled"
	KindCouponExpired       Kind = "coupon_expired"
	KindStoreUnavailable    Kind = "store_unavailable"
	KindRenderError         Kind = "render_error"
	KindInternal            Kind = "internal"
)

// Error is a domain error with a stable kind and a human-readable message.
// StoreUnavailable and RenderError indicate transient infrastructure trouble
// and are safe to retry; all other kinds are terminal for the request.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Retryable reports whether the error indicates transient infrastructure trouble.
func (e *Error) Retryable() bool {
	return e.Kind == KindStoreUnavailable || e.Kind == KindRenderError
}

func domainErr(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func wrapErr(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf extracts the domain error kind, or KindInternal for unexpected errors.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the caller-safe message for an error. Unexpected errors
// get a generic message so internal detail is never echoed.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}
