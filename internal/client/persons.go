package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// PersonsClient implements stripe.PersonsClient.
type PersonsClient struct {
	handler *stripe.APIHandler
}

// NewPersonsClient creates a new persons client.
func NewPersonsClient(handler *stripe.APIHandler) *PersonsClient {
	return &PersonsClient{
		handler: handler,
	}
}

func personPath(account string, segments ...string) string {
	return resourcePath(append([]string{"accounts", account, "persons"}, segments...)...)
}

// Create implements stripe.PersonsClient.Create.
func (c *PersonsClient) Create(ctx context.Context, account string, params *stripe.PersonParams, opts ...stripe.RequestOption) (*stripe.Person, error) {
	err := requireIDs(account)
	if err != nil {
		return nil, fmt.Errorf("creating person: %w", err)
	}

	person, err := post[stripe.Person](ctx, c.handler, personPath(account), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("creating person for account %s: %w", account, err)
	}

	return person, nil
}

// Retrieve implements stripe.PersonsClient.Retrieve.
func (c *PersonsClient) Retrieve(ctx context.Context, account, person string, opts ...stripe.RequestOption) (*stripe.Person, error) {
	err := requireIDs(account, person)
	if err != nil {
		return nil, fmt.Errorf("getting person: %w", err)
	}

	result, err := get[stripe.Person](ctx, c.handler, personPath(account, person), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("getting person %s: %w", person, err)
	}

	return result, nil
}

// Update implements stripe.PersonsClient.Update.
func (c *PersonsClient) Update(ctx context.Context, account, person string, params *stripe.PersonParams, opts ...stripe.RequestOption) (*stripe.Person, error) {
	err := requireIDs(account, person)
	if err != nil {
		return nil, fmt.Errorf("updating person: %w", err)
	}

	result, err := post[stripe.Person](ctx, c.handler, personPath(account, person), params.Params(), opts)
	if err != nil {
		return nil, fmt.Errorf("updating person %s: %w", person, err)
	}

	return result, nil
}

// Delete implements stripe.PersonsClient.Delete.
func (c *PersonsClient) Delete(ctx context.Context, account, person string, opts ...stripe.RequestOption) (*stripe.DeletedObject, error) {
	err := requireIDs(account, person)
	if err != nil {
		return nil, fmt.Errorf("deleting person: %w", err)
	}

	deleted, err := del[stripe.DeletedObject](ctx, c.handler, personPath(account, person), opts)
	if err != nil {
		return nil, fmt.Errorf("deleting person %s: %w", person, err)
	}

	return deleted, nil
}

// List implements stripe.PersonsClient.List.
func (c *PersonsClient) List(ctx context.Context, account string, filter *stripe.Params, opts ...stripe.RequestOption) (*stripe.PersonList, error) {
	err := requireIDs(account)
	if err != nil {
		return nil, fmt.Errorf("listing persons: %w", err)
	}

	list, err := get[stripe.PersonList](ctx, c.handler, personPath(account), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing persons for account %s: %w", account, err)
	}

	return list, nil
}
