package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/internal/http"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// Static errors for err113 compliance.
var (
	ErrIDRequired     = errors.New("id is required")
	ErrParamsRequired = errors.New("params are required")
)

// Client implements the stripe.Client interface.
type Client struct {
	handler   *stripe.APIHandler
	publisher *stripe.NATSEventPublisher
	logger    stripe.Logger

	// Resource clients
	topUps         stripe.TopUpsClient
	authorizations stripe.AuthorizationsClient
	balance        stripe.BalanceClient
	locations      stripe.LocationsClient
	persons        stripe.PersonsClient
	sources        stripe.SourcesClient
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *stripe.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// createInterceptors builds the interceptor chain the handler runs.
func createInterceptors(config *stripe.Config, publisher stripe.EventPublisher) *stripe.InterceptorChain {
	chain := stripe.NewInterceptorChain()

	if config.Logger != nil {
		chain.AddRequestInterceptor(stripe.LoggingInterceptor(config.Logger))
		chain.AddResponseInterceptor(stripe.LoggingResponseInterceptor(config.Logger))
	}

	if config.Metrics != nil {
		chain.AddResponseInterceptor(stripe.MetricsResponseInterceptor(config.Metrics))
	}

	if publisher != nil {
		chain.AddResponseInterceptor(stripe.EventResponseInterceptor(publisher, config.EventsSubject))
	}

	return chain
}

// New creates a new API client using the default HTTP transport.
func New(ctx context.Context, config *stripe.Config) (*Client, error) {
	return NewWithTransport(ctx, config, http.NewClient(createHTTPClientOptions(config)...))
}

// NewWithTransport creates a new API client that sends every call through
// transport.
func NewWithTransport(ctx context.Context, config *stripe.Config, transport stripe.Transport) (*Client, error) {
	if config == nil {
		return nil, stripe.ErrConfigRequired
	}

	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	var publisher *stripe.NATSEventPublisher

	if config.EventsNATSURL != "" {
		publisher, err = stripe.ConnectEventPublisher(config.EventsNATSURL)
		if err != nil {
			return nil, fmt.Errorf("creating event publisher: %w", err)
		}
	}

	var eventPublisher stripe.EventPublisher
	if publisher != nil {
		eventPublisher = publisher
	}

	handler, err := newHandler(config, transport, createInterceptors(config, eventPublisher))
	if err != nil {
		if publisher != nil {
			_ = publisher.Close()
		}

		return nil, err
	}

	client := &Client{
		handler:   handler,
		publisher: publisher,
		logger:    config.Logger,
	}

	client.initializeResourceClients()

	if client.logger != nil {
		client.logger.Debug("Client initialized", map[string]interface{}{
			"base_url":    handler.BaseURL(),
			"api_version": apiVersion(config),
			"events":      publisher != nil,
		})
	}

	return client, nil
}

func newHandler(config *stripe.Config, transport stripe.Transport, chain *stripe.InterceptorChain) (*stripe.APIHandler, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = constants.DefaultUserAgent
	}

	opts := []stripe.HandlerOption{
		stripe.WithUserAgent(userAgent),
		stripe.WithDefaultAccount(config.StripeAccount),
		stripe.WithInterceptors(chain),
	}

	if config.Logger != nil {
		opts = append(opts, stripe.WithHandlerLogger(config.Logger))
	}

	if config.AutoIdempotency {
		opts = append(opts, stripe.WithAutoIdempotency())
	}

	handler, err := stripe.NewAPIHandler(transport, baseURL, config.APIKey, apiVersion(config), opts...)
	if err != nil {
		return nil, fmt.Errorf("creating API handler: %w", err)
	}

	return handler, nil
}

func apiVersion(config *stripe.Config) string {
	if config.APIVersion != "" {
		return config.APIVersion
	}

	return constants.DefaultAPIVersion
}

func (c *Client) initializeResourceClients() {
	c.topUps = NewTopUpsClient(c.handler)
	c.authorizations = NewAuthorizationsClient(c.handler)
	c.balance = NewBalanceClient(c.handler)
	c.locations = NewLocationsClient(c.handler)
	c.persons = NewPersonsClient(c.handler)
	c.sources = NewSourcesClient(c.handler)
}

// Handler implements stripe.Client.Handler.
func (c *Client) Handler() *stripe.APIHandler {
	return c.handler
}

// Close implements stripe.Client.Close.
func (c *Client) Close() error {
	if c.publisher == nil {
		return nil
	}

	err := c.publisher.Close()
	if err != nil {
		return fmt.Errorf("closing event publisher: %w", err)
	}

	return nil
}

// Resource client accessors

// TopUps implements stripe.Client.TopUps.
func (c *Client) TopUps() stripe.TopUpsClient {
	return c.topUps
}

// Authorizations implements stripe.Client.Authorizations.
func (c *Client) Authorizations() stripe.AuthorizationsClient {
	return c.authorizations
}

// Balance implements stripe.Client.Balance.
func (c *Client) Balance() stripe.BalanceClient {
	return c.balance
}

// Locations implements stripe.Client.Locations.
func (c *Client) Locations() stripe.LocationsClient {
	return c.locations
}

// Persons implements stripe.Client.Persons.
func (c *Client) Persons() stripe.PersonsClient {
	return c.persons
}

// Sources implements stripe.Client.Sources.
func (c *Client) Sources() stripe.SourcesClient {
	return c.sources
}
