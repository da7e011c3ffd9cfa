package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zaukho/zx/internal/shared"
)

// Kind discriminates the error categories the session core reacts to.
type Kind int

const (
	// KindServer covers 5xx and any 4xx without a more specific kind.
	KindServer Kind = iota
	// KindValidation is a 400-level rejection of the request payload.
	KindValidation
	// KindUnauthenticated is a 401 that survived (or skipped) token refresh.
	KindUnauthenticated
	// KindThrottled is a 429, from the backend or the local request throttle.
	KindThrottled
	// KindNetwork is a transport failure with no HTTP response at all.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindThrottled:
		return "throttled"
	case KindNetwork:
		return "network"
	default:
		return "server"
	}
}

// Error is the single normalized error shape produced at the HTTP boundary.
//
// Status is the HTTP status code, or 0 when no response was received. Detail
// carries the server-provided message when available.
type Error struct {
	Kind   Kind
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap maps each kind onto the matching sentinel so callers can use
// errors.Is without importing this package's internals.
func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindValidation:
		return shared.ErrInvalidInput
	case KindUnauthenticated:
		return shared.ErrNotAuthenticated
	case KindThrottled:
		return shared.ErrThrottled
	case KindNetwork:
		return shared.ErrNetwork
	default:
		return shared.ErrAPIRequest
	}
}

// networkDetail is the single user-facing message for unreachable backends.
const networkDetail = "Network error. Please check your connection and try again."

// errorBody is the backend's JSON error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

// normalize converts a non-2xx response into an [*Error].
func normalize(status int, body []byte) *Error {
	var eb errorBody
	detail := ""
	if json.Unmarshal(body, &eb) == nil {
		detail = eb.Detail
	}

	e := &Error{Status: status, Detail: detail}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindUnauthenticated
		if e.Detail == "" {
			e.Detail = "not authenticated"
		}
	case status == http.StatusTooManyRequests:
		e.Kind = KindThrottled
		if e.Detail == "" {
			e.Detail = "too many requests"
		}
	case status == http.StatusBadRequest:
		e.Kind = KindValidation
		if e.Detail == "" {
			e.Detail = "invalid request"
		}
	default:
		e.Kind = KindServer
		if e.Detail == "" {
			e.Detail = fmt.Sprintf("request failed with status %d", status)
		}
	}
	return e
}

// netError wraps a transport-level failure into the generic network shape.
func netError(err error) *Error {
	return &Error{Kind: KindNetwork, Status: 0, Detail: networkDetail + " (" + err.Error() + ")"}
}

// Throttled constructs the local throttle rejection. The user-fetch cache
// returns it without issuing a network call.
func Throttled() *Error {
	return &Error{Kind: KindThrottled, Status: http.StatusTooManyRequests, Detail: "Too many requests. Please try again later."}
}
