package stripe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrTransportRequired = errors.New("transport is required")
	ErrBaseURLRequired   = errors.New("base URL is required")
	ErrAPIKeyRequired    = errors.New("API key is required")
	ErrNilResponse       = errors.New("transport returned no response")
	ErrEmptyResponseBody = errors.New("response body is empty or null")
)

const metadataStartTime = "start_time"

// APIHandler dispatches RequestSpecs through a Transport. It is built once,
// shared by every resource client and never mutated afterwards, so it is safe
// for concurrent use.
type APIHandler struct {
	transport       Transport
	baseURL         string
	baseHeaders     http.Header
	logger          Logger
	interceptors    *InterceptorChain
	autoIdempotency bool
}

// HandlerOption configures an APIHandler at construction.
type HandlerOption func(*APIHandler)

// WithHandlerLogger sets the logger used for interceptor failures.
func WithHandlerLogger(logger Logger) HandlerOption {
	return func(h *APIHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithInterceptors installs an interceptor chain. The chain must not be
// modified after the handler is built.
func WithInterceptors(chain *InterceptorChain) HandlerOption {
	return func(h *APIHandler) {
		h.interceptors = chain
	}
}

// WithUserAgent sets the User-Agent base header.
func WithUserAgent(userAgent string) HandlerOption {
	return WithBaseHeader(HeaderUserAgent, userAgent)
}

// WithDefaultAccount sends every call on behalf of a connected account unless
// the call overrides Stripe-Account.
func WithDefaultAccount(account string) HandlerOption {
	return WithBaseHeader(HeaderStripeAccount, account)
}

// WithBaseHeader adds a header sent with every call. Empty values are ignored.
func WithBaseHeader(key, value string) HandlerOption {
	return func(h *APIHandler) {
		if value != "" {
			h.baseHeaders.Set(key, value)
		}
	}
}

// WithAutoIdempotency gives every POST without an Idempotency-Key a generated
// one, so transport retries cannot create duplicates.
func WithAutoIdempotency() HandlerOption {
	return func(h *APIHandler) {
		h.autoIdempotency = true
	}
}

// NewAPIHandler creates a handler. apiKey and apiVersion become the
// Authorization and Stripe-Version base headers.
func NewAPIHandler(transport Transport, baseURL, apiKey, apiVersion string, opts ...HandlerOption) (*APIHandler, error) {
	if transport == nil {
		return nil, ErrTransportRequired
	}

	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	handler := &APIHandler{
		transport:   transport,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		baseHeaders: make(http.Header),
		logger:      noopLogger{},
	}

	handler.baseHeaders.Set(HeaderAuthorization, "Bearer "+apiKey)

	if apiVersion != "" {
		handler.baseHeaders.Set(HeaderStripeVersion, apiVersion)
	}

	for _, opt := range opts {
		opt(handler)
	}

	if handler.autoIdempotency {
		chain := NewInterceptorChain()
		chain.AddRequestInterceptor(IdempotencyInterceptor())

		if handler.interceptors != nil {
			chain.requestInterceptors = append(chain.requestInterceptors, handler.interceptors.requestInterceptors...)
			chain.responseInterceptors = append(chain.responseInterceptors, handler.interceptors.responseInterceptors...)
		}

		handler.interceptors = chain
	}

	return handler, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (h *APIHandler) BaseURL() string {
	return h.baseURL
}

// Send performs the call described by spec and decodes a 2xx body into T.
// Failures are one of *TransportError, *APIError or
// *UnexpectedResponseError. Send never retries.
func Send[T any](ctx context.Context, h *APIHandler, spec RequestSpec) (*T, error) {
	req := h.newRequest(spec)

	resp, err := h.roundTrip(ctx, spec, req)

	var result *T
	if err == nil {
		result, err = decode[T](resp)
	}

	h.observe(ctx, req, resp, err)

	if err != nil {
		return nil, err
	}

	return result, nil
}

func (h *APIHandler) newRequest(spec RequestSpec) *Request {
	headers := h.baseHeaders.Clone()

	for key, values := range spec.headers {
		headers[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	if spec.body != "" && headers.Get(HeaderContentType) == "" {
		headers.Set(HeaderContentType, ContentTypeForm)
	}

	var body []byte
	if spec.body != "" {
		body = []byte(spec.body)
	}

	return &Request{
		Method:  spec.method,
		Path:    spec.path,
		Headers: headers,
		Body:    body,
		Metadata: map[string]interface{}{
			metadataStartTime: time.Now(),
		},
	}
}

func (h *APIHandler) roundTrip(ctx context.Context, spec RequestSpec, req *Request) (*TransportResponse, error) {
	url := h.baseURL + spec.PathWithQuery()

	err := h.interceptors.ExecuteRequestInterceptors(ctx, req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}

	resp, err := h.transport.Do(ctx, &TransportRequest{
		Method:  req.Method,
		URL:     url,
		Headers: req.Headers,
		Body:    req.Body,
	})
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}

	if resp == nil {
		return nil, &TransportError{Method: req.Method, URL: url, Err: ErrNilResponse}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		mapped := MapError(resp.StatusCode, resp.Body)

		var apiErr *APIError
		if errors.As(mapped, &apiErr) && resp.Headers != nil {
			apiErr.RequestID = resp.Headers.Get(HeaderRequestID)
		}

		return resp, mapped
	}

	return resp, nil
}

func decode[T any](resp *TransportResponse) (*T, error) {
	var result T

	trimmed := bytes.TrimSpace(resp.Body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, &UnexpectedResponseError{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        fmt.Errorf("decoding %T: %w", result, ErrEmptyResponseBody),
		}
	}

	err := json.Unmarshal(resp.Body, &result)
	if err != nil {
		return nil, &UnexpectedResponseError{
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        fmt.Errorf("decoding %T: %w", result, err),
		}
	}

	return &result, nil
}

func (h *APIHandler) observe(ctx context.Context, req *Request, resp *TransportResponse, callErr error) {
	if h.interceptors == nil {
		return
	}

	observed := &Response{Error: callErr}
	if resp != nil {
		observed.StatusCode = resp.StatusCode
		observed.Headers = resp.Headers
		observed.Body = resp.Body
	}

	err := h.interceptors.ExecuteResponseInterceptors(ctx, req, observed)
	if err != nil {
		h.logger.Warn("Response interceptor failed", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
			"error":  err.Error(),
		})
	}
}

type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
