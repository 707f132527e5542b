package stripe

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	ErrInvalidPath       = errors.New("invalid request path")
)

// Header names used by the API.
const (
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "Content-Type"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestID      = "Request-Id"
	HeaderStripeAccount  = "Stripe-Account"
	HeaderStripeVersion  = "Stripe-Version"
	HeaderUserAgent      = "User-Agent"

	ContentTypeForm = "application/x-www-form-urlencoded"
)

// RequestSpec describes one call. It is immutable once built; WithHeader
// returns a modified copy.
type RequestSpec struct {
	method  string
	path    string
	query   string
	body    string
	headers http.Header
}

// NewRequestSpec validates and builds a RequestSpec. query and body are
// already encoded; either may be empty.
func NewRequestSpec(method, path, query, body string, headers map[string]string) (RequestSpec, error) {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodDelete:
	default:
		return RequestSpec{}, fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}

	if !strings.HasPrefix(path, "/") || strings.ContainsAny(path, "{}?") {
		return RequestSpec{}, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	spec := RequestSpec{
		method:  method,
		path:    path,
		query:   query,
		body:    body,
		headers: make(http.Header, len(headers)),
	}

	for key, value := range headers {
		spec.headers.Set(key, value)
	}

	return spec, nil
}

// GetRequest builds a GET with query as the query string.
func GetRequest(path string, query *Params) (RequestSpec, error) {
	return NewRequestSpec(http.MethodGet, path, Encode(query), "", nil)
}

// PostRequest builds a POST with body as the form body.
func PostRequest(path string, body *Params) (RequestSpec, error) {
	return NewRequestSpec(http.MethodPost, path, "", Encode(body), nil)
}

// DeleteRequest builds a DELETE with query as the query string.
func DeleteRequest(path string, query *Params) (RequestSpec, error) {
	return NewRequestSpec(http.MethodDelete, path, Encode(query), "", nil)
}

// Method returns the HTTP method.
func (r RequestSpec) Method() string { return r.method }

// Path returns the interpolated path.
func (r RequestSpec) Path() string { return r.path }

// Query returns the encoded query string without the leading '?'.
func (r RequestSpec) Query() string { return r.query }

// Body returns the encoded form body.
func (r RequestSpec) Body() string { return r.body }

// Headers returns a copy of the header overrides.
func (r RequestSpec) Headers() http.Header {
	return r.headers.Clone()
}

// PathWithQuery returns the path with the query string appended when present.
func (r RequestSpec) PathWithQuery() string {
	if r.query == "" {
		return r.path
	}

	return r.path + "?" + r.query
}

// WithHeader returns a copy of r with the header set.
func (r RequestSpec) WithHeader(key, value string) RequestSpec {
	headers := r.headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}

	headers.Set(key, value)
	r.headers = headers

	return r
}

// WithOptions returns a copy of r with every option applied.
func (r RequestSpec) WithOptions(opts ...RequestOption) RequestSpec {
	if len(opts) == 0 {
		return r
	}

	headers := r.headers.Clone()
	if headers == nil {
		headers = make(http.Header)
	}

	for _, opt := range opts {
		opt(headers)
	}

	r.headers = headers

	return r
}

// RequestOption overrides headers for a single call.
type RequestOption func(headers http.Header)

// WithHeader sets an arbitrary header on a single call.
func WithHeader(key, value string) RequestOption {
	return func(headers http.Header) {
		headers.Set(key, value)
	}
}

// WithIdempotencyKey makes a POST safely repeatable.
func WithIdempotencyKey(key string) RequestOption {
	return WithHeader(HeaderIdempotencyKey, key)
}

// WithStripeAccount issues the call on behalf of a connected account.
func WithStripeAccount(account string) RequestOption {
	return WithHeader(HeaderStripeAccount, account)
}

// WithAPIVersion pins a different API version for a single call.
func WithAPIVersion(version string) RequestOption {
	return WithHeader(HeaderStripeVersion, version)
}
