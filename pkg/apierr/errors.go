// Package apierr defines the single error type returned across the client
// boundary and the sentinels callers match it against.
//
// Every failure is one of three kinds: the provider rejected the request
// (KindRejected), the exchange did not complete (KindRequestFailure), or the
// client could not make sense of what happened (KindInternal). Callers check
// with errors.Is(err, apierr.ErrRejected) etc., or errors.As for the details.
package apierr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the top-level classification of an *Error.
type Kind int

// Error kinds.
const (
	KindRejected Kind = iota + 1
	KindRequestFailure
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindRequestFailure:
		return "request failure"
	case KindInternal:
		return "internal"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FailureKind refines KindRequestFailure.
type FailureKind int

// Request failure kinds.
const (
	FailureNone FailureKind = iota
	FailureTimeout
	FailureConnect
	FailureStatus
)

func (f FailureKind) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureTimeout:
		return "timeout"
	case FailureConnect:
		return "connect"
	case FailureStatus:
		return "status"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(f))
	}
}

// Sentinel errors matched by *Error.Is.
var (
	// ErrRejected indicates the provider returned a structured rejection.
	ErrRejected = errors.New("request rejected")

	// ErrRequestFailure indicates the HTTP exchange did not complete normally.
	ErrRequestFailure = errors.New("request failure")

	// ErrInternal indicates the client could not interpret the exchange.
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates the request timed out (retryable).
	ErrTimeout = errors.New("request timeout")

	// ErrConnect indicates the connection could not be established (retryable).
	ErrConnect = errors.New("connection failed")

	// ErrStatus indicates a non-success HTTP status with an unparseable body.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrShapeMismatch indicates a JSON body matching neither the success
	// shape nor the rejection shape.
	ErrShapeMismatch = errors.New("response matches no known shape")
)

// AbsentField is the value given to optional rejection fields the provider
// left out.
const AbsentField = "No content. The provider omitted this field."

// Rejection is the provider's structured error body.
type Rejection struct {
	Code      string `json:"Code"`
	HostID    string `json:"HostId"`
	Message   string `json:"Message,omitempty"`
	RequestID string `json:"RequestId"`
	Recommend string `json:"Recommend,omitempty"`
}

// FillDefaults replaces empty Message and Recommend with AbsentField.
func (r *Rejection) FillDefaults() {
	if r.Message == "" {
		r.Message = AbsentField
	}
	if r.Recommend == "" {
		r.Recommend = AbsentField
	}
}

// Error is the only error type the client returns.
type Error struct {
	Kind Kind

	// Rejection is set for KindRejected.
	Rejection *Rejection

	// Failure and Status are set for KindRequestFailure. Status is zero when
	// no response was received.
	Failure FailureKind
	Status  int

	Message string
	Cause   error
}

// NewRejected wraps a provider rejection.
func NewRejected(r *Rejection) *Error {
	return &Error{Kind: KindRejected, Rejection: r}
}

// NewRequestFailure reports an exchange that did not complete.
func NewRequestFailure(f FailureKind, status int, msg string, cause error) *Error {
	return &Error{Kind: KindRequestFailure, Failure: f, Status: status, Message: msg, Cause: cause}
}

// NewInternal reports an exchange the client could not interpret.
func NewInternal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Cause: cause}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())

	switch e.Kind {
	case KindRejected:
		if r := e.Rejection; r != nil {
			fmt.Fprintf(&b, ": %s: %s (request %s)", r.Code, r.Message, r.RequestID)
		}
	case KindRequestFailure:
		fmt.Fprintf(&b, " (%s", e.Failure)
		if e.Status != 0 {
			fmt.Fprintf(&b, " %d", e.Status)
		}
		b.WriteByte(')')
	}

	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is the sentinel for e's kind or failure kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRejected:
		return e.Kind == KindRejected
	case ErrRequestFailure:
		return e.Kind == KindRequestFailure
	case ErrInternal:
		return e.Kind == KindInternal
	case ErrTimeout:
		return e.Kind == KindRequestFailure && e.Failure == FailureTimeout
	case ErrConnect:
		return e.Kind == KindRequestFailure && e.Failure == FailureConnect
	case ErrStatus:
		return e.Kind == KindRequestFailure && e.Failure == FailureStatus
	}
	return false
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// RejectionOf returns the provider rejection carried by err, if any.
func RejectionOf(err error) (*Rejection, bool) {
	e, ok := AsError(err)
	if !ok || e.Kind != KindRejected || e.Rejection == nil {
		return nil, false
	}
	return e.Rejection, true
}
