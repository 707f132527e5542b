package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// TopUpsClient implements stripe.TopUpsClient.
type TopUpsClient struct {
	handler *stripe.APIHandler
}

// NewTopUpsClient creates a new top-ups client.
func NewTopUpsClient(handler *stripe.APIHandler) *TopUpsClient {
	return &TopUpsClient{
		handler: handler,
	}
}

// Create implements stripe.TopUpsClient.Create.
func (c *TopUpsClient) Create(ctx context.Context, params *stripe.TopUpCreateParams, opts ...stripe.RequestOption) (*stripe.TopUp, error) {
	if params == nil {
		return nil, fmt.Errorf("creating top-up: %w", ErrParamsRequired)
	}

	topUp, err := post[stripe.TopUp](ctx, c.handler, resourcePath("topups"), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("creating top-up: %w", err)
	}

	return topUp, nil
}

// Retrieve implements stripe.TopUpsClient.Retrieve.
func (c *TopUpsClient) Retrieve(ctx context.Context, id string, opts ...stripe.RequestOption) (*stripe.TopUp, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("getting top-up: %w", err)
	}

	topUp, err := get[stripe.TopUp](ctx, c.handler, resourcePath("topups", id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("getting top-up %s: %w", id, err)
	}

	return topUp, nil
}

// Update implements stripe.TopUpsClient.Update.
func (c *TopUpsClient) Update(ctx context.Context, id string, params *stripe.TopUpUpdateParams, opts ...stripe.RequestOption) (*stripe.TopUp, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("updating top-up: %w", err)
	}

	topUp, err := post[stripe.TopUp](ctx, c.handler, resourcePath("topups", id), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("updating top-up %s: %w", id, err)
	}

	return topUp, nil
}

// List implements stripe.TopUpsClient.List.
func (c *TopUpsClient) List(ctx context.Context, filter *stripe.Params, opts ...stripe.RequestOption) (*stripe.TopUpList, error) {
	list, err := get[stripe.TopUpList](ctx, c.handler, resourcePath("topups"), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing top-ups: %w", err)
	}

	return list, nil
}

// Cancel implements stripe.TopUpsClient.Cancel.
func (c *TopUpsClient) Cancel(ctx context.Context, id string, opts ...stripe.RequestOption) (*stripe.TopUp, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("canceling top-up: %w", err)
	}

	topUp, err := post[stripe.TopUp](ctx, c.handler, resourcePath("topups", id, "cancel"), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("canceling top-up %s: %w", id, err)
	}

	return topUp, nil
}
