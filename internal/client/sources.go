package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// SourcesClient implements stripe.SourcesClient.
type SourcesClient struct {
	handler *stripe.APIHandler
}

// NewSourcesClient creates a new sources client.
func NewSourcesClient(handler *stripe.APIHandler) *SourcesClient {
	return &SourcesClient{
		handler: handler,
	}
}

// Create implements stripe.SourcesClient.Create.
func (c *SourcesClient) Create(ctx context.Context, params *stripe.SourceCreateParams, opts ...stripe.RequestOption) (*stripe.Source, error) {
	if params == nil {
		return nil, fmt.Errorf("creating source: %w", ErrParamsRequired)
	}

	source, err := post[stripe.Source](ctx, c.handler, resourcePath("sources"), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("creating source: %w", err)
	}

	return source, nil
}

// Retrieve implements stripe.SourcesClient.Retrieve.
func (c *SourcesClient) Retrieve(ctx context.Context, id string, params *stripe.SourceRetrieveParams, opts ...stripe.RequestOption) (*stripe.Source, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("getting source: %w", err)
	}

	source, err := get[stripe.Source](ctx, c.handler, resourcePath("sources", id), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("getting source %s: %w", id, err)
	}

	return source, nil
}

// Update implements stripe.SourcesClient.Update.
func (c *SourcesClient) Update(ctx context.Context, id string, params *stripe.SourceUpdateParams, opts ...stripe.RequestOption) (*stripe.Source, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("updating source: %w", err)
	}

	source, err := post[stripe.Source](ctx, c.handler, resourcePath("sources", id), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("updating source %s: %w", id, err)
	}

	return source, nil
}

// Attach implements stripe.SourcesClient.Attach.
func (c *SourcesClient) Attach(ctx context.Context, customer, source string, opts ...stripe.RequestOption) (*stripe.Source, error) {
	err := requireIDs(customer, source)
	if err != nil {
		return nil, fmt.Errorf("attaching source: %w", err)
	}

	body := stripe.NewParams().Set("source", stripe.Str(source))

	result, err := post[stripe.Source](ctx, c.handler, resourcePath("customers", customer, "sources"), body, opts)
	if err != nil {
		return nil, fmt.Errorf("attaching source %s to customer %s: %w", source, customer, err)
	}

	return result, nil
}

// Detach implements stripe.SourcesClient.Detach.
func (c *SourcesClient) Detach(ctx context.Context, customer, source string, opts ...stripe.RequestOption) (*stripe.Source, error) {
	err := requireIDs(customer, source)
	if err != nil {
		return nil, fmt.Errorf("detaching source: %w", err)
	}

	result, err := del[stripe.Source](ctx, c.handler, resourcePath("customers", customer, "sources", source), opts)
	if err != nil {
		return nil, fmt.Errorf("detaching source %s from customer %s: %w", source, customer, err)
	}

	return result, nil
}
