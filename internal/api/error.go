package api

import (
	"errors"

	"github.com/kalafo/kalafo-go/internal/core/domain"
)

// Fixed user-facing strings. Transport failures never surface raw Go error
// text to the user; they map onto these.
const (
	msgTimeout        = "Request timed out. Please try again."
	msgNetwork        = "Network error. Please check your connection."
	msgCancelled      = "Request cancelled."
	msgSessionExpired = "Your session has expired. Please sign in again."
	msgGeneric        = "Request failed"
)

// Kind classifies a failed dispatch.
type Kind string

const (
	// KindTimeout covers deadline-class transport failures.
	KindTimeout Kind = "timeout"
	// KindNetwork covers unreachable-host and connection-class failures.
	KindNetwork Kind = "network"
	// KindCancelled covers caller-initiated cancellation. Deliberately
	// distinct from KindNetwork: an aborted request is not an outage.
	KindCancelled Kind = "cancelled"
	// KindHTTP covers non-2xx responses, message taken from the body.
	KindHTTP Kind = "http"
	// KindDecode covers 2xx responses whose body did not parse.
	KindDecode Kind = "decode"
	// KindSessionExpired refines a 401 whose rejected token carries a
	// readable, past expiry.
	KindSessionExpired Kind = "session_expired"
)

// Error is the single failure shape every caller sees: a normalized
// human-readable message plus enough structure to branch on. The raw body
// is retained for callers that want to re-inspect it.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status; 0 for transport-level failures
	Message string // normalized per the cascade
	Body    []byte // raw response body, may be nil
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// ErrorMessage reduces any error to its user-facing message. It is a pure
// function over already-normalized errors so forms and dashboards can
// reuse it on whatever they catch.
func ErrorMessage(err error) string {
	if err == nil {
		return msgGeneric
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return msgGeneric
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgGeneric
}

func transportErr(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, cause: cause}
}

func httpErr(status int, body []byte) *Error {
	msg, ok := normalizeBody(body)
	if !ok {
		msg = msgGeneric
	}
	e := &Error{Kind: KindHTTP, Status: status, Message: msg, Body: body}
	if status == 401 {
		e.cause = domain.ErrUnauthorized
	}
	return e
}

func sessionExpiredErr(status int, body []byte) *Error {
	return &Error{
		Kind:    KindSessionExpired,
		Status:  status,
		Message: msgSessionExpired,
		Body:    body,
		cause:   domain.ErrSessionExpired,
	}
}
