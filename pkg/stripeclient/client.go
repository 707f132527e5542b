package stripeclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/stripekit/internal/client"
	"github.com/fivetwenty-io/stripekit/internal/constants"
	"github.com/fivetwenty-io/stripekit/pkg/stripe"
)

// New creates a new API client from config. The config is copied; the
// caller's value is never modified.
func New(ctx context.Context, config *stripe.Config) (stripe.Client, error) {
	if config == nil {
		return nil, stripe.ErrConfigRequired
	}

	if config.APIKey == "" {
		return nil, stripe.ErrAPIKeyRequired
	}

	normalized := *config
	normalized.BaseURL = normalizeBaseURL(config.BaseURL)

	if normalized.APIVersion == "" {
		normalized.APIVersion = constants.DefaultAPIVersion
	}

	cli, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return cli, nil
}

// normalizeBaseURL defaults the base URL, drops trailing slashes and assumes
// https when no scheme is given.
func normalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return constants.DefaultBaseURL
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}

	return baseURL
}

// NewWithKey creates a client that authenticates with a secret key.
func NewWithKey(ctx context.Context, apiKey string) (stripe.Client, error) {
	return New(ctx, &stripe.Config{
		APIKey: apiKey,
	})
}

// NewForAccount creates a client that issues every call on behalf of a
// connected account.
func NewForAccount(ctx context.Context, apiKey, account string) (stripe.Client, error) {
	return New(ctx, &stripe.Config{
		APIKey:        apiKey,
		StripeAccount: account,
	})
}
