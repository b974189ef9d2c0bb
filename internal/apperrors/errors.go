package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for HTTP mapping and logging. The external
// message for every access-denial kind is identical on purpose: callers must
// not be able to tell "org does not exist" from "not a member" from
// "membership revoked" from "resource lives in another org".
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindNoOrganizationContext
	KindAccessDenied
	KindForbidden
	KindValidation
)

// Public messages, one per kind. These are the only strings ever surfaced.
const (
	msgInternal        = "internal server error"
	msgUnauthenticated = "authentication required"
	msgNoOrgContext    = "no organization context"
	msgAccessDenied    = "organization access denied"
	msgForbidden       = "insufficient permissions"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // internal cause, logged but never surfaced
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: msgUnauthenticated}
}

// InvalidCredentials is a login failure; deliberately silent on whether the
// email exists.
func InvalidCredentials() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "invalid email or password"}
}

func NoOrganizationContext() *Error {
	return &Error{Kind: KindNoOrganizationContext, Message: msgNoOrgContext}
}

// AccessDenied covers not-a-member, invalid org id, inactive membership and
// organization mismatch. cause is retained for internal logs only.
func AccessDenied(cause error) *Error {
	return &Error{Kind: KindAccessDenied, Message: msgAccessDenied, Err: cause}
}

func Forbidden() *Error {
	return &Error{Kind: KindForbidden, Message: msgForbidden}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Internal wraps a store or infrastructure failure. The cause never reaches
// the caller.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: msgInternal, Err: cause}
}

// KindOf returns the Kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// PublicMessage returns the caller-safe message for err.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return msgInternal
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
