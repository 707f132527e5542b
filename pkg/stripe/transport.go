package stripe

import (
	"context"
	"net/http"
)

// TransportRequest is one outbound HTTP exchange.
type TransportRequest struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

// TransportResponse is the raw result of an exchange. Body is fully read.
type TransportResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Transport performs HTTP exchanges for an APIHandler. Implementations must
// abort the exchange when ctx is cancelled and must return non-2xx responses
// as responses, not errors.
type Transport interface {
	Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *TransportRequest) (*TransportResponse, error)

// Do implements Transport.
func (f TransportFunc) Do(ctx context.Context, req *TransportRequest) (*TransportResponse, error) {
	return f(ctx, req)
}
