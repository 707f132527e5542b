package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// BalanceClient implements stripe.BalanceClient.
type BalanceClient struct {
	handler *stripe.APIHandler
}

// NewBalanceClient creates a new balance client.
func NewBalanceClient(handler *stripe.APIHandler) *BalanceClient {
	return &BalanceClient{
		handler: handler,
	}
}

// Retrieve implements stripe.BalanceClient.Retrieve.
func (c *BalanceClient) Retrieve(ctx context.Context, opts ...stripe.RequestOption) (*stripe.Balance, error) {
	balance, err := get[stripe.Balance](ctx, c.handler, resourcePath("balance"), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("getting balance: %w", err)
	}

	return balance, nil
}

// RetrieveTransaction implements stripe.BalanceClient.RetrieveTransaction.
func (c *BalanceClient) RetrieveTransaction(ctx context.Context, id string, opts ...stripe.RequestOption) (*stripe.BalanceTransaction, error) {
	err := requireIDs(id)
	if err != nil {
		return nil, fmt.Errorf("getting balance transaction: %w", err)
	}

	transaction, err := get[stripe.BalanceTransaction](ctx, c.handler, resourcePath("balance_transactions", id), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("getting balance transaction %s: %w", id, err)
	}

	return transaction, nil
}

// ListTransactions implements stripe.BalanceClient.ListTransactions.
func (c *BalanceClient) ListTransactions(ctx context.Context, filter *stripe.Params, opts ...stripe.RequestOption) (*stripe.BalanceTransactionList, error) {
	list, err := get[stripe.BalanceTransactionList](ctx, c.handler, resourcePath("balance_transactions"), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("listing balance transactions: %w", err)
	}

	return list, nil
}
