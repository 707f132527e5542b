package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is the machine-readable error category assigned by the API.
type ErrorType string

// Error types returned by the API.
const (
	ErrorTypeAPI            ErrorType = "api_error"
	ErrorTypeAPIConnection  ErrorType = "api_connection_error"
	ErrorTypeAuthentication ErrorType = "authentication_error"
	ErrorTypeCard           ErrorType = "card_error"
	ErrorTypeIdempotency    ErrorType = "idempotency_error"
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error"
	ErrorTypeRateLimit      ErrorType = "rate_limit_error"
)

// ErrorCodeResourceMissing is the code returned for unknown object ids.
const ErrorCodeResourceMissing = "resource_missing"

const errorBodyExcerptLimit = 512

// ErrorKind discriminates the three failure classes of a call.
type ErrorKind int

const (
	// ErrorKindNone is returned for nil or foreign errors.
	ErrorKindNone ErrorKind = iota
	// ErrorKindTransport covers connection, TLS, timeout and cancellation failures.
	ErrorKindTransport
	// ErrorKindAPI covers error responses with a decodable error body.
	ErrorKindAPI
	// ErrorKindUnexpectedResponse covers bodies that do not match the expected schema.
	ErrorKindUnexpectedResponse
)

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindAPI:
		return "api"
	case ErrorKindUnexpectedResponse:
		return "unexpected_response"
	default:
		return "none"
	}
}

// Sentinels matched with errors.Is against the typed errors below.
var (
	ErrTransport          = errors.New("transport failure")
	ErrAPI                = errors.New("api error")
	ErrUnexpectedResponse = errors.New("unexpected response")
)

// TransportError reports that the HTTP exchange did not complete.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransport.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// APIError is an error response decoded from the API.
type APIError struct {
	HTTPStatusCode int       `json:"-"                      yaml:"status"`
	Type           ErrorType `json:"type"                   yaml:"type"`
	Code           string    `json:"code,omitempty"         yaml:"code,omitempty"`
	DeclineCode    string    `json:"decline_code,omitempty" yaml:"decline_code,omitempty"`
	Message        string    `json:"message,omitempty"      yaml:"message,omitempty"`
	Param          string    `json:"param,omitempty"        yaml:"param,omitempty"`
	DocURL         string    `json:"doc_url,omitempty"      yaml:"doc_url,omitempty"`
	ChargeID       string    `json:"charge,omitempty"       yaml:"charge,omitempty"`
	RequestID      string    `json:"-"                      yaml:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s (status %d)", e.Type, e.HTTPStatusCode)
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Param != "" {
		msg += " (param: " + e.Param + ")"
	}

	return msg
}

// Is matches ErrAPI.
func (e *APIError) Is(target error) bool {
	return target == ErrAPI
}

// UnexpectedResponseError reports a body that could not be decoded into the
// expected schema. It is never retried: it signals a client/server mismatch.
type UnexpectedResponseError struct {
	StatusCode int
	Body       []byte
	Err        error
}

// Error implements the error interface.
func (e *UnexpectedResponseError) Error() string {
	body := e.Body
	if len(body) > errorBodyExcerptLimit {
		body = body[:errorBodyExcerptLimit]
	}

	return fmt.Sprintf("unexpected response (status %d): %v: %q", e.StatusCode, e.Err, body)
}

// Unwrap returns the decode failure.
func (e *UnexpectedResponseError) Unwrap() error {
	return e.Err
}

// Is matches ErrUnexpectedResponse.
func (e *UnexpectedResponseError) Is(target error) bool {
	return target == ErrUnexpectedResponse
}

// Static errors for err113 compliance.
var (
	ErrMissingErrorObject = errors.New("error body has no error object")
	ErrMissingErrorType   = errors.New("error object has no type")
)

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// MapError converts a non-2xx status and its raw body into a typed error.
// Bodies that are not a JSON error envelope produce an
// *UnexpectedResponseError rather than a generic API error.
func MapError(statusCode int, body []byte) error {
	var envelope errorEnvelope

	err := json.Unmarshal(body, &envelope)
	if err != nil {
		return &UnexpectedResponseError{StatusCode: statusCode, Body: body, Err: err}
	}

	if envelope.Error == nil {
		return &UnexpectedResponseError{StatusCode: statusCode, Body: body, Err: ErrMissingErrorObject}
	}

	if envelope.Error.Type == "" {
		return &UnexpectedResponseError{StatusCode: statusCode, Body: body, Err: ErrMissingErrorType}
	}

	apiErr := envelope.Error
	apiErr.HTTPStatusCode = statusCode

	return apiErr
}

// ErrorKindOf classifies err.
func ErrorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrAPI):
		return ErrorKindAPI
	case errors.Is(err, ErrUnexpectedResponse):
		return ErrorKindUnexpectedResponse
	case errors.Is(err, ErrTransport):
		return ErrorKindTransport
	default:
		return ErrorKindNone
	}
}

// AsAPIError extracts the *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

func hasErrorType(err error, errorType ErrorType) bool {
	apiErr, ok := AsAPIError(err)

	return ok && apiErr.Type == errorType
}

// IsCardError checks if the error is a card error.
func IsCardError(err error) bool {
	return hasErrorType(err, ErrorTypeCard)
}

// IsInvalidRequest checks if the error is an invalid request error.
func IsInvalidRequest(err error) bool {
	return hasErrorType(err, ErrorTypeInvalidRequest)
}

// IsAuthentication checks if the error is an authentication error.
func IsAuthentication(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}

	return apiErr.Type == ErrorTypeAuthentication || apiErr.HTTPStatusCode == http.StatusUnauthorized
}

// IsRateLimited checks if the error is a rate limit error.
func IsRateLimited(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}

	return apiErr.Type == ErrorTypeRateLimit || apiErr.HTTPStatusCode == http.StatusTooManyRequests
}

// IsIdempotencyError checks if the error is an idempotency error.
func IsIdempotencyError(err error) bool {
	return hasErrorType(err, ErrorTypeIdempotency)
}

// IsNotFound checks if the error is a missing resource error.
func IsNotFound(err error) bool {
	apiErr, ok := AsAPIError(err)
	if !ok {
		return false
	}

	return apiErr.Code == ErrorCodeResourceMissing || apiErr.HTTPStatusCode == http.StatusNotFound
}
