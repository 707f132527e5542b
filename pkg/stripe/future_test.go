package stripe_test

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// blockingTransport holds every exchange until release is closed or the
// context is done.
type blockingTransport struct {
	started  chan struct{}
	release  chan struct{}
	aborted  atomic.Bool
	response *stripe.TransportResponse
}

func newBlockingTransport(response *stripe.TransportResponse) *blockingTransport {
	return &blockingTransport{
		started:  make(chan struct{}, 1),
		release:  make(chan struct{}),
		response: response,
	}
}

func (b *blockingTransport) Do(ctx context.Context, _ *stripe.TransportRequest) (*stripe.TransportResponse, error) {
	b.started <- struct{}{}

	select {
	case <-b.release:
		return b.response, nil
	case <-ctx.Done():
		b.aborted.Store(true)

		return nil, ctx.Err()
	}
}

func TestSendAsync(t *testing.T) {
	t.Parallel()

	t.Run("delivers result", func(t *testing.T) {
		t.Parallel()

		transport := newBlockingTransport(jsonResponse(http.StatusOK, `{"id":"w_1"}`))
		handler := newHandler(t, transport)

		future := stripe.SendAsync[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets/w_1", nil)))

		<-transport.started
		close(transport.release)

		result, err := future.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "w_1", result.ID)

		select {
		case <-future.Done():
		default:
			t.Fatal("done channel not closed")
		}

		future.Cancel()

		result, err = future.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "w_1", result.ID)
	})

	t.Run("delivers failure", func(t *testing.T) {
		t.Parallel()

		transport := newBlockingTransport(jsonResponse(http.StatusPaymentRequired, `{"error":{"type":"card_error"}}`))
		handler := newHandler(t, transport)

		future := stripe.SendAsync[widget](context.Background(), handler, mustSpec(t)(stripe.PostRequest("/v1/charges", nil)))

		<-transport.started
		close(transport.release)

		_, err := future.Wait(context.Background())
		assert.True(t, stripe.IsCardError(err))
	})

	t.Run("cancel before completion delivers nothing", func(t *testing.T) {
		t.Parallel()

		transport := newBlockingTransport(jsonResponse(http.StatusOK, `{"id":"w_1"}`))
		handler := newHandler(t, transport)

		future := stripe.SendAsync[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets/w_1", nil)))

		<-transport.started
		future.Cancel()

		result, err := future.Wait(context.Background())
		require.ErrorIs(t, err, stripe.ErrFutureCanceled)
		assert.Nil(t, result)

		assert.Eventually(t, transport.aborted.Load, time.Second, 5*time.Millisecond)

		select {
		case <-future.Done():
			t.Fatal("result delivered after cancel")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("parent context cancels the exchange", func(t *testing.T) {
		t.Parallel()

		transport := newBlockingTransport(nil)
		handler := newHandler(t, transport)

		ctx, cancel := context.WithCancel(context.Background())
		future := stripe.SendAsync[widget](ctx, handler, mustSpec(t)(stripe.GetRequest("/v1/widgets", nil)))

		<-transport.started
		cancel()

		_, err := future.Wait(context.Background())
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, stripe.ErrorKindTransport, stripe.ErrorKindOf(err))
		assert.True(t, transport.aborted.Load())

		select {
		case <-future.Done():
		default:
			t.Fatal("handle did not settle after the parent context was cancelled")
		}
	})

	t.Run("wait honors its own context", func(t *testing.T) {
		t.Parallel()

		transport := newBlockingTransport(jsonResponse(http.StatusOK, `{}`))
		handler := newHandler(t, transport)

		future := stripe.SendAsync[widget](context.Background(), handler, mustSpec(t)(stripe.GetRequest("/v1/widgets", nil)))
		defer future.Cancel()

		<-transport.started

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := future.Wait(ctx)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
