// Package errs defines the error taxonomy shared by the whole pipeline.
//
// Every failure surfaced to a caller is an *Error carrying a Kind
// discriminator plus kind-specific payload fields, so callers switch on
// KindOf instead of matching message strings.
package errs

import (
	"errors"
	"fmt"
	"time"
)

// Kind discriminates error categories.
type Kind int

const (
	// KindValidation marks bad caller input. Never retried.
	KindValidation Kind = iota
	// KindNetwork marks timeouts and connection failures. Retryable.
	KindNetwork
	// KindAPI marks non-2xx, non-429 upstream responses. Not retried.
	KindAPI
	// KindRateLimit marks HTTP 429. Retryable with a delay hint.
	KindRateLimit
	// KindData marks responses that decoded but yielded no usable records.
	KindData
	// KindNotFound marks an instrument or resource that does not exist upstream.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	case KindRateLimit:
		return "rate_limit"
	case KindData:
		return "data"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the single tagged error type used across the pipeline.
type Error struct {
	Kind    Kind
	Message string

	// Validation payload.
	Field string
	Value string

	// API payload.
	Status int

	// RateLimit payload.
	RetryAfter time.Duration

	// Wrapped cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		if e.Field != "" {
			return fmt.Sprintf("%s (field: %s, value: %q)", e.Message, e.Field, e.Value)
		}
	case KindAPI:
		if e.Status != 0 {
			return fmt.Sprintf("%s (status: %d)", e.Message, e.Status)
		}
	case KindRateLimit:
		if e.RetryAfter > 0 {
			return fmt.Sprintf("%s (retry after: %s)", e.Message, e.RetryAfter)
		}
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation creates a KindValidation error for a named field.
func Validation(field, value, format string, args ...any) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
		Value:   value,
	}
}

// Network wraps a transport-level failure.
func Network(err error, format string, args ...any) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// API creates a KindAPI error for a non-2xx status.
func API(status int, format string, args ...any) *Error {
	return &Error{
		Kind:    KindAPI,
		Message: fmt.Sprintf(format, args...),
		Status:  status,
	}
}

// RateLimit creates a KindRateLimit error with a delay hint.
func RateLimit(retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Message:    "rate limit exceeded",
		RetryAfter: retryAfter,
	}
}

// Data creates a KindData error for an empty or unusable result.
func Data(format string, args ...any) *Error {
	return &Error{Kind: KindData, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or KindNetwork for foreign errors since
// anything untagged reaching a caller came out of the transport layer.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Retryable reports whether err is transient: network failures and rate
// limits are retried, validation and hard API errors are not.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindRateLimit:
		return true
	default:
		return false
	}
}
