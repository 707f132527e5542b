package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/fivetwenty-io/stripekit/internal/http"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

const testAPIKey = "sk_test_123"

// recordedRequest is what the test server saw.
type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Body     string
	Header   http.Header
}

// testServer replies with a fixed status and body and records every request.
type testServer struct {
	*httptest.Server

	mutex    sync.Mutex
	requests []recordedRequest
}

func newTestServer(t *testing.T, statusCode int, body string) *testServer {
	t.Helper()

	server := &testServer{}
	server.Server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		payload, err := io.ReadAll(request.Body)
		assert.NoError(t, err)

		server.mutex.Lock()
		server.requests = append(server.requests, recordedRequest{
			Method:   request.Method,
			Path:     request.URL.EscapedPath(),
			RawQuery: request.URL.RawQuery,
			Body:     string(payload),
			Header:   request.Header.Clone(),
		})
		server.mutex.Unlock()

		writer.Header().Set("Content-Type", "application/json")
		writer.Header().Set("Request-Id", "req_test")
		writer.WriteHeader(statusCode)
		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server
}

func (s *testServer) last(t *testing.T) recordedRequest {
	t.Helper()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	require.NotEmpty(t, s.requests, "server received no request")

	return s.requests[len(s.requests)-1]
}

func (s *testServer) count() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return len(s.requests)
}

// NewTestClient creates a client that talks to baseURL.
func NewTestClient(t *testing.T, baseURL string, configure ...func(*stripe.Config)) *Client {
	t.Helper()

	config := &stripe.Config{
		APIKey:  testAPIKey,
		BaseURL: baseURL,
	}

	for _, fn := range configure {
		fn(config)
	}

	client, err := NewWithTransport(context.Background(), config, internalhttp.NewClient())
	require.NoError(t, err)

	return client
}
