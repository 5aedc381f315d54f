// Error types and classification
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrorKind classifies where a failure originated
type ErrorKind string

const (
	// KindTransport covers network, DNS, timeout and cancellation failures
	KindTransport ErrorKind = "transport"
	// KindUpstream covers non-2xx answers from the backend
	KindUpstream ErrorKind = "upstream"
	// KindParse covers bodies that are not JSON or lack the expected answer field
	KindParse ErrorKind = "parse"
	// KindHeuristicParse covers model answers that match no expected shape
	KindHeuristicParse ErrorKind = "heuristic_parse"
	// KindValidation covers requests rejected before any network call
	KindValidation ErrorKind = "validation"
)

// Error represents a standardized LLM error
type Error struct {
	Kind       ErrorKind `json:"kind"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Type       string    `json:"type,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	Cause      error     `json:"-"`
}

func (e *Error) Error() string {
	msg := e.Message
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new classified error
func NewError(kind ErrorKind, code, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// KindOf returns the kind of err, or "" when err is nil.
// Errors that are not *Error are classified first.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return ClassifyError(err).Kind
}

// ClassifyError maps an arbitrary error into the Error taxonomy.
// An *Error anywhere in the chain is returned unchanged.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	switch {
	case errors.Is(err, context.Canceled):
		return NewError(KindTransport, "canceled", "request canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewError(KindTransport, "timeout", "request timed out", err)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return NewError(KindParse, "invalid_json", "malformed response body", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewError(KindTransport, "timeout", "request timed out", err)
		}
		return NewError(KindTransport, "network_error", "network failure", err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return NewError(KindTransport, "network_error", "network failure", err)
	}

	return NewError(KindTransport, "unknown_error", "request failed", err)
}

// IsRetryable reports whether repeating the same request may succeed:
// transport failures other than caller cancellation, rate limiting and 5xx answers.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	e := ClassifyError(err)
	switch e.Kind {
	case KindTransport:
		return e.Code != "canceled"
	case KindUpstream:
		if e.Type == "rate_limit_error" || e.Code == "rate_limit_exceeded" {
			return true
		}
		return e.StatusCode == 429 || (e.StatusCode >= 500 && e.StatusCode < 600)
	default:
		return false
	}
}
