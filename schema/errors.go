package schema

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized indicates the server rejected the session (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotLoggedIn indicates an authenticated call was attempted without a token.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrInvalidStatus indicates an unknown mention status.
	ErrInvalidStatus = errors.New("invalid mention status")
	// ErrInvalidMentionID indicates an empty or malformed mention id.
	ErrInvalidMentionID = errors.New("invalid mention id")
	// ErrInvalidPolicyID indicates an invalid policy id.
	ErrInvalidPolicyID = errors.New("invalid policy id")
	// ErrInvalidLimit indicates a non-positive page limit.
	ErrInvalidLimit = errors.New("invalid page limit")
	// ErrInvalidOffset reports a negative paging offset.
	ErrInvalidOffset = errors.New("invalid page offset")
	// ErrEmptyToken indicates an empty login token.
	ErrEmptyToken = errors.New("empty token")
	// ErrEmptyEmail indicates an empty email address.
	ErrEmptyEmail = errors.New("empty email")
	// ErrInvalidSeed indicates widget seed data that is not a JSON mention array.
	ErrInvalidSeed = errors.New("invalid widget seed data")
	// ErrMissingTarget indicates a widget without a target URL.
	ErrMissingTarget = errors.New("widget target is required")
	// ErrMissingEndpoint indicates a widget without an endpoint.
	ErrMissingEndpoint = errors.New("widget endpoint is required")
)

// ErrorKind classifies API failures.
type ErrorKind string

const (
	// ErrorAuthorization is an HTTP 401. It invalidates the session.
	ErrorAuthorization ErrorKind = "authorization"
	// ErrorValidation is any other 4xx or a request rejected before dispatch.
	ErrorValidation ErrorKind = "validation"
	// ErrorTransport covers network failures, timeouts, undecodable
	// responses and 5xx answers.
	ErrorTransport ErrorKind = "transport"
)

// APIError describes a failed API operation.
type APIError struct {
	Kind       ErrorKind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" && e.StatusCode != 0 {
		msg = http.StatusText(e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (%d): %s", e.Op, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches ErrUnauthorized for authorization failures.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e != nil && e.Kind == ErrorAuthorization
}

// KindForStatus maps an HTTP status code to an error kind.
func KindForStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized:
		return ErrorAuthorization
	case code >= 400 && code < 500:
		return ErrorValidation
	default:
		return ErrorTransport
	}
}

// NewStatusError builds an APIError for a non-2xx response.
func NewStatusError(op string, code int, message string) *APIError {
	return &APIError{Kind: KindForStatus(code), Op: op, StatusCode: code, Message: message}
}

// NewTransportError wraps a network or decode failure.
func NewTransportError(op string, err error) *APIError {
	return &APIError{Kind: ErrorTransport, Op: op, Err: err}
}

// NewValidationError wraps a request rejected before it was sent.
func NewValidationError(op string, err error) *APIError {
	return &APIError{Kind: ErrorValidation, Op: op, Err: err}
}

// IsUnauthorized reports whether err is an authorization failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// KindOf returns the error kind of err, or "" if it is not an APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// SendError carries the per-target report of a partially failed send.
type SendError struct {
	Report SendReport
	Err    error
}

func (e *SendError) Error() string {
	failed := 0
	for _, target := range e.Report.Targets {
		if target.Error != "" {
			failed++
		}
	}
	return fmt.Sprintf("send from %s failed for %d of %d targets", e.Report.Source, failed, len(e.Report.Targets))
}

func (e *SendError) Unwrap() error {
	return e.Err
}
