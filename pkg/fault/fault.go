// Package fault provides the error taxonomy shared across layers.
// Domain and app code classify failures by kind; the HTTP layer maps
// kinds to status codes without inspecting message text.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// Internal is the zero kind for unclassified failures.
	Internal Kind = iota
	// NotFound means a referenced item, plan, coupon, or user is absent.
	NotFound
	// Validation means malformed input: missing field, non-positive
	// amount, weak password, bad coupon type or interval.
	Validation
	// Conflict means a duplicate id/code or a protected-record deletion.
	Conflict
	// PaymentNotConfirmed means the external session is not paid yet.
	PaymentNotConfirmed
	// TokenInvalid means a token failed signature or structural checks.
	TokenInvalid
	// TokenExpired means a token is past its expiry.
	TokenExpired
	// TokenMismatch means a valid token was presented for a different file.
	TokenMismatch
	// Unauthorized means credentials were missing or wrong.
	Unauthorized
	// Forbidden means an authenticated caller lacks the right to act.
	Forbidden
	// DynamicPricingRequired means a coupon was applied while the
	// operator forces pre-registered price references.
	DynamicPricingRequired
)

// Error carries a kind and a single descriptive reason string.
type Error struct {
	kind Kind
	msg  string
}

// New creates a classified error.
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf creates a classified error with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Error returns the reason string.
func (e *Error) Error() string {
	return e.msg
}

// Kind returns the error's classification.
func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf returns the kind of err, or Internal when err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.kind
	}
	return Internal
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
