package stripe

import (
	"context"
	"errors"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired = errors.New("config is required")
)

// TopUpsClient provides top-up operations.
type TopUpsClient interface {
	// Create adds funds to the balance from a source
	Create(ctx context.Context, params *TopUpCreateParams, opts ...RequestOption) (*TopUp, error)

	Retrieve(ctx context.Context, id string, opts ...RequestOption) (*TopUp, error)

	// Update sets the description or metadata of a top-up
	Update(ctx context.Context, id string, params *TopUpUpdateParams, opts ...RequestOption) (*TopUp, error)

	// List returns top-ups matching the filter (amount, created, status, limit,
	// starting_after, ...)
	List(ctx context.Context, filter *Params, opts ...RequestOption) (*TopUpList, error)

	// Cancel cancels a pending top-up
	Cancel(ctx context.Context, id string, opts ...RequestOption) (*TopUp, error)
}

// AuthorizationsClient provides issuing authorization operations.
type AuthorizationsClient interface {
	Retrieve(ctx context.Context, id string, opts ...RequestOption) (*Authorization, error)
	Update(ctx context.Context, id string, params *AuthorizationUpdateParams, opts ...RequestOption) (*Authorization, error)

	// Approve approves a pending authorization
	Approve(ctx context.Context, id string, params *AuthorizationApproveParams, opts ...RequestOption) (*Authorization, error)

	// Decline declines a pending authorization
	Decline(ctx context.Context, id string, opts ...RequestOption) (*Authorization, error)

	List(ctx context.Context, filter *Params, opts ...RequestOption) (*AuthorizationList, error)
}

// BalanceClient provides balance operations.
type BalanceClient interface {
	// Retrieve returns the current balance
	Retrieve(ctx context.Context, opts ...RequestOption) (*Balance, error)

	// RetrieveTransaction returns one balance transaction
	RetrieveTransaction(ctx context.Context, id string, opts ...RequestOption) (*BalanceTransaction, error)

	// ListTransactions returns the balance history
	ListTransactions(ctx context.Context, filter *Params, opts ...RequestOption) (*BalanceTransactionList, error)
}

// LocationsClient provides terminal location operations.
type LocationsClient interface {
	Create(ctx context.Context, params *LocationCreateParams, opts ...RequestOption) (*Location, error)
	Retrieve(ctx context.Context, id string, opts ...RequestOption) (*Location, error)
	Update(ctx context.Context, id string, params *LocationUpdateParams, opts ...RequestOption) (*Location, error)
	Delete(ctx context.Context, id string, opts ...RequestOption) (*DeletedObject, error)
	List(ctx context.Context, filter *Params, opts ...RequestOption) (*LocationList, error)
}

// PersonsClient provides operations on the persons of a connected account.
type PersonsClient interface {
	Create(ctx context.Context, account string, params *PersonParams, opts ...RequestOption) (*Person, error)
	Retrieve(ctx context.Context, account, person string, opts ...RequestOption) (*Person, error)
	Update(ctx context.Context, account, person string, params *PersonParams, opts ...RequestOption) (*Person, error)
	Delete(ctx context.Context, account, person string, opts ...RequestOption) (*DeletedObject, error)
	List(ctx context.Context, account string, filter *Params, opts ...RequestOption) (*PersonList, error)
}

// SourcesClient provides payment source operations.
type SourcesClient interface {
	Create(ctx context.Context, params *SourceCreateParams, opts ...RequestOption) (*Source, error)
	Retrieve(ctx context.Context, id string, params *SourceRetrieveParams, opts ...RequestOption) (*Source, error)
	Update(ctx context.Context, id string, params *SourceUpdateParams, opts ...RequestOption) (*Source, error)

	// Attach attaches a source to a customer
	Attach(ctx context.Context, customer, source string, opts ...RequestOption) (*Source, error)

	// Detach detaches a source from a customer
	Detach(ctx context.Context, customer, source string, opts ...RequestOption) (*Source, error)
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	TopUps() TopUpsClient
	Authorizations() AuthorizationsClient
	Balance() BalanceClient
	Locations() LocationsClient
	Persons() PersonsClient
	Sources() SourcesClient
}

// Client is the main interface for the API client.
type Client interface {
	ResourceClients

	// Handler returns the shared handler, for calling endpoints that have no
	// resource client with Send.
	Handler() *APIHandler

	// Close releases the event publisher connection, if any.
	Close() error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a stripe.Client.
//
// Per-request timeouts should be controlled via the context passed to client
// methods. HTTPTimeout bounds each exchange at the transport. The client never
// retries on its own: RetryMax defaults to 0 and retries only happen when it
// is set, which is safe for POSTs only when an idempotency key is sent.
type Config struct {
	// APIKey: secret key sent as a Bearer token. Required.
	APIKey string
	// APIVersion: value of the Stripe-Version header. Defaults to the version
	// the models were written against.
	APIVersion string
	// BaseURL: API base URL. Defaults to https://api.stripe.com.
	BaseURL string
	// StripeAccount: connected account every call is made on behalf of.
	StripeAccount string
	// UserAgent: overrides the default User-Agent header.
	UserAgent string

	HTTPTimeout  time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug  bool
	Logger Logger

	// Metrics: when set, per-endpoint call counts, errors and latency are
	// recorded here.
	Metrics *MetricsCollector

	// AutoIdempotency: generate an Idempotency-Key for every POST that does
	// not carry one.
	AutoIdempotency bool

	// EventsNATSURL: when set, a CallEvent is published to NATS after every call.
	EventsNATSURL string
	// EventsSubject: NATS subject for call events. Defaults to stripekit.calls.
	EventsSubject string
}
