package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// AuthorizationsClient implements stripe.AuthorizationsClient.
type AuthorizationsClient struct {
	handler *stripe.APIHandler
}

// NewAuthorizationsClient creates a new issuing authorizations client.
func NewAuthorizationsClient(handler *stripe.APIHandler) *AuthorizationsClient {
	return &AuthorizationsClient{
		handler: handler,
	}
}

func authorizationPath(segments ...string) string {
	return resourcePath(append([]string{"issuing", "authorizations"}, segments...)...)
}

// Retrieve implements stripe.AuthorizationsClient.Retrieve.
func (c *AuthorizationsClient) Retrieve(ctx context.Context, id string, opts ...stripe.RequestOption) (*stripe.Authorization, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("getting authorization: %w", err)
	}

	authorization, err := get[stripe.Authorization](ctx, c.handler, authorizationPath(id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("getting authorization %s: %w", id, err)
	}

	return authorization, nil
}

// Update implements stripe.AuthorizationsClient.Update.
func (c *AuthorizationsClient) Update(ctx context.Context, id string, params *stripe.AuthorizationUpdateParams, opts ...stripe.RequestOption) (*stripe.Authorization, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("updating authorization: %w", err)
	}

	authorization, err := post[stripe.Authorization](ctx, c.handler, authorizationPath(id), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("updating authorization %s: %w", id, err)
	}

	return authorization, nil
}

// Approve implements stripe.AuthorizationsClient.Approve.
func (c *AuthorizationsClient) Approve(ctx context.Context, id string, params *stripe.AuthorizationApproveParams, opts ...stripe.RequestOption) (*stripe.Authorization, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("approving authorization: %w", err)
	}

	authorization, err := post[stripe.Authorization](ctx, c.handler, authorizationPath(id, "approve"), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("approving authorization %s: %w", id, err)
	}

	return authorization, nil
}

// Decline implements stripe.AuthorizationsClient.Decline.
func (c *AuthorizationsClient) Decline(ctx context.Context, id string, opts ...stripe.RequestOption) (*stripe.Authorization, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("declining authorization: %w", err)
	}

	authorization, err := post[stripe.Authorization](ctx, c.handler, authorizationPath(id, "decline"), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("declining authorization %s: %w", id, err)
	}

	return authorization, nil
}

// List implements stripe.AuthorizationsClient.List.
func (c *AuthorizationsClient) List(ctx context.Context, filter *stripe.Params, opts ...stripe.RequestOption) (*stripe.AuthorizationList, error) {
	list, err := get[stripe.AuthorizationList](ctx, c.handler, authorizationPath(), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing authorizations: %w", err)
	}

	return list, nil
}
