package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	internalhttp "github.com/fivetwenty-io/stripekit/internal/http"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

var errPublishFailed = errors.New("publish failed")

type recordingPublisher struct {
	mutex    sync.Mutex
	subjects []string
	events   []stripe.CallEvent
	err      error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.err != nil {
		return p.err
	}

	var event stripe.CallEvent

	err := json.Unmarshal(data, &event)
	if err != nil {
		return err
	}

	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, event)

	return nil
}

type recordingLogger struct {
	mutex    sync.Mutex
	messages []string
}

func (l *recordingLogger) log(msg string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Debug(msg string, _ map[string]interface{}) { l.log(msg) }
func (l *recordingLogger) Info(msg string, _ map[string]interface{})  { l.log(msg) }
func (l *recordingLogger) Warn(msg string, _ map[string]interface{})  { l.log(msg) }
func (l *recordingLogger) Error(msg string, _ map[string]interface{}) { l.log(msg) }

func (l *recordingLogger) contains(msg string) bool {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for _, message := range l.messages {
		if message == msg {
			return true
		}
	}

	return false
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNewWithTransport(t *testing.T) {
	t.Parallel()

	t.Run("requires config", func(t *testing.T) {
		t.Parallel()

		_, err := NewWithTransport(context.Background(), nil, internalhttp.NewClient())
		require.ErrorIs(t, err, stripe.ErrConfigRequired)
	})

	t.Run("requires API key", func(t *testing.T) {
		t.Parallel()

		_, err := NewWithTransport(context.Background(), &stripe.Config{}, internalhttp.NewClient())
		require.ErrorIs(t, err, stripe.ErrAPIKeyRequired)
	})

	t.Run("rejects canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewWithTransport(ctx, &stripe.Config{APIKey: testAPIKey}, internalhttp.NewClient())
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("defaults base URL", func(t *testing.T) {
		t.Parallel()

		client, err := NewWithTransport(context.Background(), &stripe.Config{APIKey: testAPIKey}, internalhttp.NewClient())
		require.NoError(t, err)
		assert.Equal(t, constants.DefaultBaseURL, client.Handler().BaseURL())
		assert.NoError(t, client.Close())
	})

	t.Run("logs initialization", func(t *testing.T) {
		t.Parallel()

		logger := &recordingLogger{}

		_, err := NewWithTransport(context.Background(), &stripe.Config{APIKey: testAPIKey, Logger: logger}, internalhttp.NewClient())
		require.NoError(t, err)
		assert.True(t, logger.contains("Client initialized"))
	})

	t.Run("fails when NATS is unreachable", func(t *testing.T) {
		t.Parallel()

		_, err := NewWithTransport(context.Background(), &stripe.Config{
			APIKey:        testAPIKey,
			EventsNATSURL: "nats://127.0.0.1:1",
		}, internalhttp.NewClient())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "creating event publisher")
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Headers(t *testing.T) {
	t.Parallel()

	t.Run("sends base headers", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"object":"balance"}`)
		client := NewTestClient(t, server.URL)

		_, err := client.Balance().Retrieve(context.Background())
		require.NoError(t, err)

		request := server.last(t)
		assert.Equal(t, "Bearer "+testAPIKey, request.Header.Get(stripe.HeaderAuthorization))
		assert.Equal(t, constants.DefaultAPIVersion, request.Header.Get(stripe.HeaderStripeVersion))
		assert.Equal(t, constants.DefaultUserAgent, request.Header.Get(stripe.HeaderUserAgent))
		assert.Empty(t, request.Header.Get(stripe.HeaderStripeAccount))
		assert.Empty(t, request.Header.Get(stripe.HeaderIdempotencyKey))
	})

	t.Run("uses configured version and account", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"object":"balance"}`)
		client := NewTestClient(t, server.URL, func(config *stripe.Config) {
			config.APIVersion = "2020-08-27"
			config.StripeAccount = "acct_default"
		})

		_, err := client.Balance().Retrieve(context.Background())
		require.NoError(t, err)

		request := server.last(t)
		assert.Equal(t, "2020-08-27", request.Header.Get(stripe.HeaderStripeVersion))
		assert.Equal(t, "acct_default", request.Header.Get(stripe.HeaderStripeAccount))
	})

	t.Run("per-call options win over defaults", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"id":"tu_1","object":"topup"}`)
		client := NewTestClient(t, server.URL, func(config *stripe.Config) {
			config.StripeAccount = "acct_default"
		})

		_, err := client.TopUps().Create(context.Background(),
			&stripe.TopUpCreateParams{Amount: 100, Currency: stripe.CurrencyUSD},
			stripe.WithIdempotencyKey("key-1"),
			stripe.WithStripeAccount("acct_other"),
			stripe.WithAPIVersion("2022-11-15"),
		)
		require.NoError(t, err)

		request := server.last(t)
		assert.Equal(t, "key-1", request.Header.Get(stripe.HeaderIdempotencyKey))
		assert.Equal(t, "acct_other", request.Header.Get(stripe.HeaderStripeAccount))
		assert.Equal(t, "2022-11-15", request.Header.Get(stripe.HeaderStripeVersion))
	})

	t.Run("auto idempotency keys every call", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"id":"tu_1","object":"topup"}`)
		client := NewTestClient(t, server.URL, func(config *stripe.Config) {
			config.AutoIdempotency = true
		})

		_, err := client.TopUps().Cancel(context.Background(), "tu_1")
		require.NoError(t, err)

		first := server.last(t).Header.Get(stripe.HeaderIdempotencyKey)

		_, err = client.TopUps().Cancel(context.Background(), "tu_1")
		require.NoError(t, err)

		second := server.last(t).Header.Get(stripe.HeaderIdempotencyKey)

		assert.NotEmpty(t, first)
		assert.NotEmpty(t, second)
		assert.NotEqual(t, first, second)
	})

	t.Run("auto idempotency keeps explicit key", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"id":"tu_1","object":"topup"}`)
		client := NewTestClient(t, server.URL, func(config *stripe.Config) {
			config.AutoIdempotency = true
		})

		_, err := client.TopUps().Cancel(context.Background(), "tu_1", stripe.WithIdempotencyKey("mine"))
		require.NoError(t, err)
		assert.Equal(t, "mine", server.last(t).Header.Get(stripe.HeaderIdempotencyKey))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing resource", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusNotFound,
			`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such topup: 'tu_x'","param":"id"}}`)
		client := NewTestClient(t, server.URL)

		topUp, err := client.TopUps().Retrieve(context.Background(), "tu_x")
		require.Error(t, err)
		assert.Nil(t, topUp)

		assert.True(t, stripe.IsNotFound(err))
		assert.True(t, stripe.IsInvalidRequest(err))
		assert.Equal(t, stripe.ErrorKindAPI, stripe.ErrorKindOf(err))
		assert.Contains(t, err.Error(), "getting top-up tu_x")

		apiErr, ok := stripe.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatusCode)
		assert.Equal(t, "id", apiErr.Param)
		assert.Equal(t, "req_test", apiErr.RequestID)
	})

	t.Run("card error", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusPaymentRequired,
			`{"error":{"type":"card_error","code":"card_declined","decline_code":"insufficient_funds","message":"Your card has insufficient funds."}}`)
		client := NewTestClient(t, server.URL)

		_, err := client.Sources().Attach(context.Background(), "cus_1", "src_1")
		require.Error(t, err)
		assert.True(t, stripe.IsCardError(err))

		apiErr, ok := stripe.AsAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "insufficient_funds", apiErr.DeclineCode)
	})

	t.Run("malformed success body", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"id":`)
		client := NewTestClient(t, server.URL)

		_, err := client.Locations().Retrieve(context.Background(), "tml_1")
		require.Error(t, err)
		assert.Equal(t, stripe.ErrorKindUnexpectedResponse, stripe.ErrorKindOf(err))
	})

	t.Run("non JSON error body", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)
		client := NewTestClient(t, server.URL)

		_, err := client.Balance().Retrieve(context.Background())
		require.Error(t, err)
		assert.Equal(t, stripe.ErrorKindUnexpectedResponse, stripe.ErrorKindOf(err))
		assert.False(t, stripe.IsNotFound(err))
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, "http://127.0.0.1:1")

		_, err := client.Balance().Retrieve(context.Background())
		require.Error(t, err)
		assert.Equal(t, stripe.ErrorKindTransport, stripe.ErrorKindOf(err))
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Validation(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, http.StatusOK, `{}`)
	client := NewTestClient(t, server.URL)
	ctx := context.Background()

	calls := map[string]func() error{
		"top-up retrieve": func() error {
			_, err := client.TopUps().Retrieve(ctx, "")

			return err
		},
		"top-up create": func() error {
			_, err := client.TopUps().Create(ctx, nil)

			return err
		},
		"authorization approve": func() error {
			_, err := client.Authorizations().Approve(ctx, "", nil)

			return err
		},
		"balance transaction": func() error {
			_, err := client.Balance().RetrieveTransaction(ctx, "")

			return err
		},
		"location create": func() error {
			_, err := client.Locations().Create(ctx, nil)

			return err
		},
		"location delete": func() error {
			_, err := client.Locations().Delete(ctx, "")

			return err
		},
		"person retrieve without account": func() error {
			_, err := client.Persons().Retrieve(ctx, "", "person_1")

			return err
		},
		"person list without account": func() error {
			_, err := client.Persons().List(ctx, "", nil)

			return err
		},
		"source create": func() error {
			_, err := client.Sources().Create(ctx, nil)

			return err
		},
		"source detach without customer": func() error {
			_, err := client.Sources().Detach(ctx, "", "src_1")

			return err
		},
	}

	for name, call := range calls {
		err := call()
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, ErrIDRequired) || errors.Is(err, ErrParamsRequired), name)
	}

	assert.Zero(t, server.count())
}

func TestClient_PathEscaping(t *testing.T) {
	t.Parallel()

	server := newTestServer(t, http.StatusOK, `{"id":"x"}`)
	client := NewTestClient(t, server.URL)

	_, err := client.TopUps().Retrieve(context.Background(), "tu_1/../balance")
	require.NoError(t, err)
	assert.Equal(t, "/v1/topups/tu_1%2F..%2Fbalance", server.last(t).Path)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestCreateInterceptors(t *testing.T) {
	t.Parallel()

	t.Run("empty config adds nothing", func(t *testing.T) {
		t.Parallel()

		chain := createInterceptors(&stripe.Config{}, nil)
		require.NotNil(t, chain)

		err := chain.ExecuteRequestInterceptors(context.Background(), &stripe.Request{})
		require.NoError(t, err)
	})

	t.Run("publishes call events", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusNotFound,
			`{"error":{"type":"invalid_request_error","code":"resource_missing"}}`)
		publisher := &recordingPublisher{}

		handler, err := newHandler(
			&stripe.Config{APIKey: testAPIKey, BaseURL: server.URL, EventsSubject: "payments.calls"},
			internalhttp.NewClient(),
			createInterceptors(&stripe.Config{EventsSubject: "payments.calls"}, publisher),
		)
		require.NoError(t, err)

		_, err = NewTopUpsClient(handler).Retrieve(context.Background(), "tu_missing")
		require.Error(t, err)

		publisher.mutex.Lock()
		defer publisher.mutex.Unlock()

		require.Len(t, publisher.events, 1)
		assert.Equal(t, "payments.calls", publisher.subjects[0])

		event := publisher.events[0]
		assert.Equal(t, http.MethodGet, event.Method)
		assert.Equal(t, "/v1/topups/tu_missing", event.Path)
		assert.Equal(t, http.StatusNotFound, event.StatusCode)
		assert.Equal(t, "req_test", event.RequestID)
		assert.Equal(t, "api", event.ErrorKind)
		assert.Equal(t, "invalid_request_error", event.ErrorType)
	})

	t.Run("publish failure does not fail the call", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"object":"balance"}`)
		logger := &recordingLogger{}

		config := &stripe.Config{APIKey: testAPIKey, BaseURL: server.URL, Logger: logger}
		handler, err := newHandler(config, internalhttp.NewClient(),
			createInterceptors(config, &recordingPublisher{err: errPublishFailed}))
		require.NoError(t, err)

		balance, err := NewBalanceClient(handler).Retrieve(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "balance", balance.Object)
		assert.True(t, logger.contains("Response interceptor failed"))
	})

	t.Run("records metrics", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"object":"list","data":[]}`)
		metrics := stripe.NewMetricsCollector()
		client := NewTestClient(t, server.URL, func(config *stripe.Config) {
			config.Metrics = metrics
		})

		for range 3 {
			_, err := client.Locations().List(context.Background(), nil)
			require.NoError(t, err)
		}

		snapshot, ok := metrics.GetMetrics("GET /v1/terminal/locations")
		require.True(t, ok)
		assert.Equal(t, int64(3), snapshot.TotalRequests)
		assert.Zero(t, snapshot.TotalErrors)
	})

	t.Run("logs calls", func(t *testing.T) {
		t.Parallel()

		server := newTestServer(t, http.StatusOK, `{"object":"balance"}`)
		logger := &recordingLogger{}
		client := NewTestClient(t, server.URL, func(config *stripe.Config) {
			config.Logger = logger
		})

		_, err := client.Balance().Retrieve(context.Background())
		require.NoError(t, err)

		logger.mutex.Lock()
		defer logger.mutex.Unlock()

		joined := strings.Join(logger.messages, "\n")
		assert.Contains(t, joined, "API Request")
		assert.Contains(t, joined, "API Response")
	})
}
