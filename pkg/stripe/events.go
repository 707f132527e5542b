package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/stripekit/internal/constants"
)

// DefaultEventsSubject is the NATS subject call events are published to.
const DefaultEventsSubject = constants.DefaultEventsSubject

// CallEvent describes one completed call. It carries no request or response
// body, so no customer data leaves the process.
type CallEvent struct {
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	ErrorType  string    `json:"error_type,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher publishes raw messages. *nats.Conn satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// NewCallEvent builds the event for an observed call.
func NewCallEvent(req *Request, resp *Response) CallEvent {
	event := CallEvent{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: resp.StatusCode,
		DurationMS: requestLatency(req).Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}

	if resp.Headers != nil {
		event.RequestID = resp.Headers.Get(HeaderRequestID)
	}

	if resp.Error != nil {
		event.ErrorKind = ErrorKindOf(resp.Error).String()

		if apiErr, ok := AsAPIError(resp.Error); ok {
			event.ErrorType = string(apiErr.Type)
		}
	}

	return event
}

// EventResponseInterceptor publishes a CallEvent for every call. Publishing
// failures are returned to the handler, which logs them.
func EventResponseInterceptor(publisher EventPublisher, subject string) ResponseInterceptor {
	if subject == "" {
		subject = DefaultEventsSubject
	}

	return func(ctx context.Context, req *Request, resp *Response) error {
		data, err := json.Marshal(NewCallEvent(req, resp))
		if err != nil {
			return fmt.Errorf("encoding call event: %w", err)
		}

		err = publisher.Publish(subject, data)
		if err != nil {
			return fmt.Errorf("publishing call event to %s: %w", subject, err)
		}

		return nil
	}
}

// NATSEventPublisher publishes call events over a NATS connection.
type NATSEventPublisher struct {
	conn *nats.Conn
}

// ConnectEventPublisher connects to the NATS server at url.
func ConnectEventPublisher(url string, opts ...nats.Option) (*NATSEventPublisher, error) {
	opts = append([]nats.Option{nats.Name("stripekit")}, opts...)

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}

	return &NATSEventPublisher{conn: conn}, nil
}

// Publish implements EventPublisher.
func (p *NATSEventPublisher) Publish(subject string, data []byte) error {
	return p.conn.Publish(subject, data)
}

// Close flushes pending events and closes the connection.
func (p *NATSEventPublisher) Close() error {
	err := p.conn.Drain()
	if err != nil {
		return fmt.Errorf("draining NATS connection: %w", err)
	}

	return nil
}
