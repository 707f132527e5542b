package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// LocationsClient implements stripe.LocationsClient.
type LocationsClient struct {
	handler *stripe.APIHandler
}

// NewLocationsClient creates a new terminal locations client.
func NewLocationsClient(handler *stripe.APIHandler) *LocationsClient {
	return &LocationsClient{
		handler: handler,
	}
}

func locationPath(segments ...string) string {
	return resourcePath(append([]string{"terminal", "locations"}, segments...)...)
}

// Create implements stripe.LocationsClient.Create.
func (c *LocationsClient) Create(ctx context.Context, params *stripe.LocationCreateParams, opts ...stripe.RequestOption) (*stripe.Location, error) {
	if params == nil {
		return nil, fmt.Errorf("creating location: %w", ErrParamsRequired)
	}

	location, err := post[stripe.Location](ctx, c.handler, locationPath(), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	return location, nil
}

// Retrieve implements stripe.LocationsClient.Retrieve.
func (c *LocationsClient) Retrieve(ctx context.Context, id string, opts ...stripe.RequestOption) (*stripe.Location, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}

	location, err := get[stripe.Location](ctx, c.handler, locationPath(id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("getting location %s: %w", id, err)
	}

	return location, nil
}

// Update implements stripe.LocationsClient.Update.
func (c *LocationsClient) Update(ctx context.Context, id string, params *stripe.LocationUpdateParams, opts ...stripe.RequestOption) (*stripe.Location, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("updating location: %w", err)
	}

	location, err := post[stripe.Location](ctx, c.handler, locationPath(id), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("updating location %s: %w", id, err)
	}

	return location, nil
}

// Delete implements stripe.LocationsClient.Delete.
func (c *LocationsClient) Delete(ctx context.Context, id string, opts ...stripe.RequestOption) (*stripe.DeletedObject, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("deleting location: %w", err)
	}

	deleted, err := del[stripe.DeletedObject](ctx, c.handler, locationPath(id), opts)
	if err != nil {
		return nil, fmt.Errorf("deleting location %s: %w", id, err)
	}

	return deleted, nil
}

// List implements stripe.LocationsClient.List.
func (c *LocationsClient) List(ctx context.Context, filter *stripe.Params, opts ...stripe.RequestOption) (*stripe.LocationList, error) {
	list, err := get[stripe.LocationList](ctx, c.handler, locationPath(), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}

	return list, nil
}
