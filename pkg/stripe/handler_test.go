package stripe_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

var (
	errConnectionRefused = errors.New("connection refused")
	errInterceptor       = errors.New("interceptor rejected request")
)

type widget struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

// fakeTransport replies with a fixed response and records the last request.
type fakeTransport struct {
	mutex    sync.Mutex
	requests []*stripe.TransportRequest
	response *stripe.TransportResponse
	err      error
}

func (f *fakeTransport) Do(_ context.Context, req *stripe.TransportRequest) (*stripe.TransportResponse, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.requests = append(f.requests, req)

	return f.response, f.err
}

func (f *fakeTransport) last(t *testing.T) *stripe.TransportRequest {
	t.Helper()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	require.NotEmpty(t, f.requests)

	return f.requests[len(f.requests)-1]
}

func jsonResponse(status int, body string) *stripe.TransportResponse {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	headers.Set(stripe.HeaderRequestID, "req_123")

	return &stripe.TransportResponse{StatusCode: status, Headers: headers, Body: []byte(body)}
}

func newHandler(t *testing.T, transport stripe.Transport, opts ...stripe.HandlerOption) *stripe.APIHandler {
	t.Helper()

	handler, err := stripe.NewAPIHandler(transport, "https://api.example.com/", "sk_test_key", "2019-05-16", opts...)
	require.NoError(t, err)

	return handler
}

func mustSpec(t *testing.T) func(stripe.RequestSpec, error) stripe.RequestSpec {
	t.Helper()

	return func(spec stripe.RequestSpec, err error) stripe.RequestSpec {
		t.Helper()
		require.NoError(t, err)

		return spec
	}
}

func TestNewAPIHandler(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}

	_, err := stripe.NewAPIHandler(nil, "https://api.example.com", "sk", "")
	require.ErrorIs(t, err, stripe.ErrTransportRequired)

	_, err = stripe.NewAPIHandler(transport, "", "sk", "")
	require.ErrorIs(t, err, stripe.ErrBaseURLRequired)

	_, err = stripe.NewAPIHandler(transport, "https://api.example.com", "", "")
	require.ErrorIs(t, err, stripe.ErrAPIKeyRequired)

	handler := newHandler(t, transport)
	assert.Equal(t, "https://api.example.com", handler.BaseURL())
}

//nolint:funlen,maintidx // Test functions can be longer for comprehensive testing
func TestSend(t *testing.T) {
	t.Parallel()

	t.Run("decodes success", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusOK, `{"id":"w_1","amount":50,"unknown":true}`)}
		handler := newHandler(t, transport)

		spec := mustSpec(t)(stripe.GetRequest("/v1/widgets/w_1", stripe.NewParams().Set("expand", stripe.Strs([]string{"owner"}))))

		result, err := stripe.Send[widget](context.Background(), handler, spec)
		require.NoError(t, err)
		assert.Equal(t, &widget{ID: "w_1", Amount: 50}, result)

		request := transport.last(t)
		assert.Equal(t, http.MethodGet, request.Method)
		assert.Equal(t, "https://api.example.com/v1/widgets/w_1?expand[]=owner", request.URL)
		assert.Nil(t, request.Body)
		assert.Equal(t, "Bearer sk_test_key", request.Headers.Get(stripe.HeaderAuthorization))
		assert.Equal(t, "2019-05-16", request.Headers.Get(stripe.HeaderStripeVersion))
		assert.Empty(t, request.Headers.Get(stripe.HeaderContentType))
	})

	t.Run("posts form body", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusOK, `{"id":"w_1"}`)}
		handler := newHandler(t, transport)

		spec := mustSpec(t)(stripe.PostRequest("/v1/widgets", stripe.NewParams().Set("amount", stripe.Int(50))))

		_, err := stripe.Send[widget](context.Background(), handler, spec)
		require.NoError(t, err)

		request := transport.last(t)
		assert.Equal(t, "https://api.example.com/v1/widgets", request.URL)
		assert.Equal(t, "amount=50", string(request.Body))
		assert.Equal(t, stripe.ContentTypeForm, request.Headers.Get(stripe.HeaderContentType))
	})

	t.Run("caller headers win", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusOK, `{}`)}
		handler := newHandler(t, transport,
			stripe.WithDefaultAccount("acct_default"),
			stripe.WithBaseHeader("X-Empty", ""),
		)

		spec := mustSpec(t)(stripe.NewRequestSpec(http.MethodPost, "/v1/widgets", "", "a=1", map[string]string{
			"stripe-version": "2024-01-01",
		}))
		spec = spec.WithOptions(stripe.WithStripeAccount("acct_call"))

		_, err := stripe.Send[widget](context.Background(), handler, spec)
		require.NoError(t, err)

		request := transport.last(t)
		assert.Equal(t, "2024-01-01", request.Headers.Get(stripe.HeaderStripeVersion))
		assert.Equal(t, []string{"2024-01-01"}, request.Headers.Values(stripe.HeaderStripeVersion))
		assert.Equal(t, "acct_call", request.Headers.Get(stripe.HeaderStripeAccount))
		assert.Empty(t, request.Headers.Get("X-Empty"))
		assert.Equal(t, "Bearer sk_test_key", request.Headers.Get(stripe.HeaderAuthorization))
	})

	t.Run("calls do not share headers", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusOK, `{}`)}
		handler := newHandler(t, transport)

		spec := mustSpec(t)(stripe.GetRequest("/v1/widgets", nil))

		_, err := stripe.Send[widget](context.Background(), handler, spec.WithOptions(stripe.WithStripeAccount("acct_1")))
		require.NoError(t, err)
		assert.Equal(t, "acct_1", transport.last(t).Headers.Get(stripe.HeaderStripeAccount))

		_, err = stripe.Send[widget](context.Background(), handler, spec)
		require.NoError(t, err)
		assert.Empty(t, transport.last(t).Headers.Get(stripe.HeaderStripeAccount))
	})

	t.Run("card error", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusPaymentRequired,
			`{"error":{"type":"card_error","message":"Your card was declined.","code":"card_declined"}}`)}
		handler := newHandler(t, transport)

		result, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.PostRequest("/v1/charges", nil)))
		require.Error(t, err)
		assert.Nil(t, result)

		apiErr, ok := stripe.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, stripe.ErrorTypeCard, apiErr.Type)
		assert.Equal(t, "card_declined", apiErr.Code)
		assert.Equal(t, "Your card was declined.", apiErr.Message)
		assert.Equal(t, http.StatusPaymentRequired, apiErr.HTTPStatusCode)
		assert.Equal(t, "req_123", apiErr.RequestID)
		assert.Equal(t, stripe.ErrorKindAPI, stripe.ErrorKindOf(err))
		assert.True(t, stripe.IsCardError(err))
	})

	t.Run("undecodable success body", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusOK, `{"id": 42}`)}
		handler := newHandler(t, transport)

		result, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets/w_1", nil)))
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, stripe.ErrorKindUnexpectedResponse, stripe.ErrorKindOf(err))

		var unexpected *stripe.UnexpectedResponseError
		require.ErrorAs(t, err, &unexpected)
		assert.Equal(t, http.StatusOK, unexpected.StatusCode)
	})

	t.Run("null or empty success body", func(t *testing.T) {
		t.Parallel()

		for _, body := range []string{"null", " null\n", "", "  "} {
			transport := &fakeTransport{response: jsonResponse(http.StatusOK, body)}
			handler := newHandler(t, transport)

			result, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets/w_1", nil)))
			require.ErrorIs(t, err, stripe.ErrEmptyResponseBody, "body %q", body)
			assert.Nil(t, result)
			assert.Equal(t, stripe.ErrorKindUnexpectedResponse, stripe.ErrorKindOf(err))
		}
	})

	t.Run("undecodable error body", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusInternalServerError, `Internal Server Error`)}
		handler := newHandler(t, transport)

		_, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets", nil)))
		require.Error(t, err)
		assert.Equal(t, stripe.ErrorKindUnexpectedResponse, stripe.ErrorKindOf(err))
		assert.False(t, errors.Is(err, stripe.ErrAPI))
	})

	t.Run("transport failure", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{err: errConnectionRefused}
		handler := newHandler(t, transport)

		_, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets", nil)))
		require.Error(t, err)
		require.ErrorIs(t, err, errConnectionRefused)
		assert.Equal(t, stripe.ErrorKindTransport, stripe.ErrorKindOf(err))

		var transportErr *stripe.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.Equal(t, "https://api.example.com/v1/widgets", transportErr.URL)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()

		handler := newHandler(t, &fakeTransport{})

		_, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets", nil)))
		require.ErrorIs(t, err, stripe.ErrNilResponse)
		assert.Equal(t, stripe.ErrorKindTransport, stripe.ErrorKindOf(err))
	})

	t.Run("request interceptor failure", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusOK, `{}`)}

		chain := stripe.NewInterceptorChain()
		chain.AddRequestInterceptor(func(context.Context, *stripe.Request) error {
			return errInterceptor
		})

		handler := newHandler(t, transport, stripe.WithInterceptors(chain))

		_, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets", nil)))
		require.ErrorIs(t, err, errInterceptor)
		assert.Equal(t, stripe.ErrorKindTransport, stripe.ErrorKindOf(err))

		transport.mutex.Lock()
		defer transport.mutex.Unlock()

		assert.Empty(t, transport.requests)
	})

	t.Run("response interceptor sees outcome", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusNotFound,
			`{"error":{"type":"invalid_request_error","code":"resource_missing"}}`)}

		var observed *stripe.Response

		chain := stripe.NewInterceptorChain()
		chain.AddResponseInterceptor(func(_ context.Context, _ *stripe.Request, resp *stripe.Response) error {
			observed = resp

			return errInterceptor
		})

		handler := newHandler(t, transport, stripe.WithInterceptors(chain))

		_, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets/w_x", nil)))
		require.Error(t, err)
		assert.True(t, stripe.IsNotFound(err))
		assert.NotErrorIs(t, err, errInterceptor)

		require.NotNil(t, observed)
		assert.Equal(t, http.StatusNotFound, observed.StatusCode)
		assert.True(t, stripe.IsNotFound(observed.Error))
	})

	t.Run("auto idempotency only keys POST", func(t *testing.T) {
		t.Parallel()

		transport := &fakeTransport{response: jsonResponse(http.StatusOK, `{}`)}
		handler := newHandler(t, transport, stripe.WithAutoIdempotency())

		_, err := stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.PostRequest("/v1/widgets", nil)))
		require.NoError(t, err)
		assert.NotEmpty(t, transport.last(t).Headers.Get(stripe.HeaderIdempotencyKey))

		_, err = stripe.Send[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets", nil)))
		require.NoError(t, err)
		assert.Empty(t, transport.last(t).Headers.Get(stripe.HeaderIdempotencyKey))
	})
}

func TestSend_Concurrent(t *testing.T) {
	t.Parallel()

	transport := stripe.TransportFunc(func(_ context.Context, req *stripe.TransportRequest) (*stripe.TransportResponse, error) {
		return jsonResponse(http.StatusOK, `{"id":"`+req.Headers.Get(stripe.HeaderStripeAccount)+`"}`), nil
	})
	handler := newHandler(t, transport)
	spec := mustSpec(t)(stripe.GetRequest("/v1/widgets", nil))

	var group sync.WaitGroup

	accounts := []string{"acct_1", "acct_2", "acct_3", "acct_4", "acct_5", "acct_6", "acct_7", "acct_8"}
	results := make([]string, len(accounts))

	for index, account := range accounts {
		group.Add(1)

		go func() {
			defer group.Done()

			result, err := stripe.Send[widget](context.Background(), handler, spec.WithOptions(stripe.WithStripeAccount(account)))
			if assert.NoError(t, err) {
				results[index] = result.ID
			}
		}()
	}

	group.Wait()
	assert.Equal(t, accounts, results)
}
